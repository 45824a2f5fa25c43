// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/modctl/modctl/internal/config"
	"github.com/modctl/modctl/pkg/serverconfig"
	"github.com/modctl/modctl/pkg/steamcmd"
)

func testServers() serverconfig.Config {
	return serverconfig.New(map[string]serverconfig.Server{
		"Main": serverconfig.NewServer(
			serverconfig.ModificationFromID(450814997),
			serverconfig.NewModification(463939057, "ace"),
			serverconfig.ModificationFromID(450814997),
		),
		"vanilla": serverconfig.NewServer(),
	})
}

func TestPlan(t *testing.T) {
	t.Parallel()

	base := Request{
		Server:      "Main",
		InstallDir:  "/srv/arma3",
		User:        "anonymous",
		HasUser:     true,
		App:         233780,
		WorkshopApp: 107410,
		Validate:    true,
	}

	tests := []struct {
		name   string
		modify func(*Request)
		want   []string
	}{
		{
			name:   "full install",
			modify: func(*Request) {},
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+app_update", "233780", "validate",
				"+workshop_download_item", "107410", "450814997",
				"+workshop_download_item", "107410", "463939057",
				"+quit",
			},
		},
		{
			name:   "no validate",
			modify: func(r *Request) { r.Validate = false },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+app_update", "233780",
				"+workshop_download_item", "107410", "450814997",
				"+workshop_download_item", "107410", "463939057",
				"+quit",
			},
		},
		{
			name:   "explicit empty user",
			modify: func(r *Request) { r.User = ""; r.SkipMods = true },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "",
				"+app_update", "233780", "validate",
				"+quit",
			},
		},
		{
			name:   "skip app",
			modify: func(r *Request) { r.SkipApp = true },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+workshop_download_item", "107410", "450814997",
				"+workshop_download_item", "107410", "463939057",
				"+quit",
			},
		},
		{
			name:   "skip mods",
			modify: func(r *Request) { r.SkipMods = true },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+app_update", "233780", "validate",
				"+quit",
			},
		},
		{
			name:   "workshop app defaults to app",
			modify: func(r *Request) { r.WorkshopApp = 0; r.App = 294420 },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+app_update", "294420", "validate",
				"+workshop_download_item", "294420", "450814997",
				"+workshop_download_item", "294420", "463939057",
				"+quit",
			},
		},
		{
			name:   "zero app skips update",
			modify: func(r *Request) { r.App = 0 },
			want: []string{
				"+force_install_dir", "/srv/arma3",
				"+login", "anonymous",
				"+workshop_download_item", "107410", "450814997",
				"+workshop_download_item", "107410", "463939057",
				"+quit",
			},
		},
		{
			name:   "no dir or user",
			modify: func(r *Request) { r.InstallDir = ""; r.User = ""; r.HasUser = false; r.Server = "vanilla" },
			want:   []string{"+app_update", "233780", "validate", "+quit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := base
			tt.modify(&req)
			got, err := Plan(testServers(), req)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Plan() =\n  %v\nwant\n  %v", got, tt.want)
			}
		})
	}
}

func TestPlan_ServerNotFound(t *testing.T) {
	t.Parallel()

	_, err := Plan(testServers(), Request{Server: "main"})
	if !errors.Is(err, ErrServerNotFound) {
		t.Fatalf("Plan() error = %v, want ErrServerNotFound", err)
	}
	var nf *ServerNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error should be *ServerNotFoundError, got %T", err)
	}
	if nf.Name != "main" || !slices.Equal(nf.Known, []string{"Main", "vanilla"}) {
		t.Errorf("ServerNotFoundError = %+v", nf)
	}

	_, err = Plan(serverconfig.New(nil), Request{Server: "x"})
	if err == nil || err.Error() != `server "x" not found (no servers configured)` {
		t.Errorf("empty config error = %v", err)
	}
}

func TestPlan_ModsWithoutWorkshopApp(t *testing.T) {
	t.Parallel()

	_, err := Plan(testServers(), Request{Server: "Main"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("Plan() error = %v, want ErrInvalidRequest", err)
	}

	// No mods to download, so no workshop app is needed.
	if _, err := Plan(testServers(), Request{Server: "vanilla"}); err != nil {
		t.Errorf("Plan(vanilla) error = %v", err)
	}
	if _, err := Plan(testServers(), Request{Server: "Main", SkipMods: true}); err != nil {
		t.Errorf("Plan(skip mods) error = %v", err)
	}
}

func TestShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"dir and login", Request{InstallDir: "/srv", User: "bob", HasUser: true, App: 1}, []string{"+force_install_dir", "/srv", "+login", "bob"}},
		{"login only", Request{User: "anonymous", HasUser: true}, []string{"+login", "anonymous"}},
		{"explicit empty login", Request{HasUser: true}, []string{"+login", ""}},
		{"unset login", Request{User: "ignored"}, []string{}},
		{"nothing", Request{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ShellArgs(tt.req)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ShellArgs() = %v, want %v", got, tt.want)
			}
			if slices.Contains(got, steamcmd.TokenQuit) {
				t.Error("shell args must not quit")
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SteamCmd.InstallDir = "/srv/x"
	cfg.SteamCmd.User = "builder"
	cfg.Game.App = 233780

	req := NewRequest(cfg, "Main")
	want := Request{
		Server:      "Main",
		InstallDir:  "/srv/x",
		User:        "builder",
		HasUser:     true,
		App:         233780,
		WorkshopApp: 233780,
		Validate:    true,
	}
	if req != want {
		t.Errorf("NewRequest() = %+v, want %+v", req, want)
	}
}

func TestRequest_Resolve(t *testing.T) {
	t.Parallel()

	req, err := Request{InstallDir: "/srv/a/../b"}.Resolve()
	if err != nil || req.InstallDir.String() != filepath.Clean("/srv/b") {
		t.Errorf("Resolve() = (%q, %v), want cleaned path", req.InstallDir, err)
	}

	req, err = Request{}.Resolve()
	if err != nil || !req.InstallDir.IsZero() {
		t.Errorf("Resolve() of empty dir = (%q, %v)", req.InstallDir, err)
	}
}

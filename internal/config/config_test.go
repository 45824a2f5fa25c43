// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/modctl/modctl/internal/issue"
	"github.com/modctl/modctl/internal/testutil"
	"github.com/modctl/modctl/pkg/types"
)

const sampleCUE = `
steamcmd: {
	install_dir: "/srv/arma3"
	user:        "builder"
	retries:     2
	retry_backoff: "250ms"
}
game: {
	app:          233780
	workshop_app: 107410
	validate:     false
}
log: level: "debug"
servers: {
	Main: mods: [450814997, {id: 463939057, name: "ace"}, 450814997]
	training: {}
}
`

const sampleTOML = `
[steamcmd]
install_dir = "/srv/arma3"
user = "builder"
retries = 2
retry_backoff = "250ms"

[game]
app = 233780
workshop_app = 107410
validate = false

[log]
level = "debug"

[servers.Main]
mods = [450814997, { id = 463939057, name = "ace" }, 450814997]

[servers.training]
`

const sampleYAML = `
steamcmd:
  install_dir: /srv/arma3
  user: builder
  retries: 2
  retry_backoff: 250ms
game:
  app: 233780
  workshop_app: 107410
  validate: false
log:
  level: debug
servers:
  Main:
    mods:
      - 450814997
      - id: 463939057
        name: ace
      - 450814997
  training: {}
`

const sampleJSON = `{
  "steamcmd": {"install_dir": "/srv/arma3", "user": "builder", "retries": 2, "retry_backoff": "250ms"},
  "game": {"app": 233780, "workshop_app": 107410, "validate": false},
  "log": {"level": "debug"},
  "servers": {
    "Main": {"mods": [450814997, {"id": 463939057, "name": "ace"}, 450814997]},
    "training": {}
  }
}`

// loadFrom writes content into a fresh config dir and loads it with an
// empty working directory.
func loadFrom(t *testing.T, fileName, content string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, fileName), content)
	return NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(dir),
		WorkDir:       types.FilesystemPath(t.TempDir()),
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.SteamCmd.User != "anonymous" {
		t.Errorf("User = %q, want anonymous", cfg.SteamCmd.User)
	}
	if cfg.SteamCmd.Retries != 0 {
		t.Errorf("Retries = %d, want 0", cfg.SteamCmd.Retries)
	}
	if cfg.SteamCmd.RetryBackoff != 5*time.Second {
		t.Errorf("RetryBackoff = %s, want 5s", cfg.SteamCmd.RetryBackoff)
	}
	if !cfg.Game.Validate {
		t.Error("Validate should default to true")
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Servers.Len() != 0 {
		t.Errorf("Servers has %d entries, want 0", cfg.Servers.Len())
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestLoad_AllFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{"config.cue", sampleCUE},
		{"config.toml", sampleTOML},
		{"config.yaml", sampleYAML},
		{"config.yml", sampleYAML},
		{"config.json", sampleJSON},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			cfg, err := loadFrom(t, tt.file, tt.content)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if got := filepath.Base(cfg.SourcePath); got != tt.file {
				t.Errorf("SourcePath = %q, want file %q", cfg.SourcePath, tt.file)
			}
			if cfg.SteamCmd.InstallDir != "/srv/arma3" || cfg.SteamCmd.User != "builder" {
				t.Errorf("SteamCmd = %+v", cfg.SteamCmd)
			}
			if cfg.SteamCmd.Retries != 2 || cfg.SteamCmd.RetryBackoff != 250*time.Millisecond {
				t.Errorf("retries = %d backoff = %s", cfg.SteamCmd.Retries, cfg.SteamCmd.RetryBackoff)
			}
			if cfg.Game.App != 233780 || cfg.Game.WorkshopApp != 107410 || cfg.Game.Validate {
				t.Errorf("Game = %+v", cfg.Game)
			}
			if cfg.Log.Level != LogLevelDebug {
				t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
			}

			if got, want := cfg.Servers.Names(), []string{"Main", "training"}; !slices.Equal(got, want) {
				t.Fatalf("server names = %v, want %v (case preserved)", got, want)
			}
			main, _ := cfg.Servers.Get("Main")
			if main.Len() != 3 || len(main.ModIDs()) != 2 {
				t.Errorf("Main has %d mods (%d unique), want 3 (2 unique)", main.Len(), len(main.ModIDs()))
			}
			if name, ok := main.Mods()[1].Name(); !ok || name != "ace" {
				t.Errorf("Main mods[1] name = (%q, %v), want (ace, true)", name, ok)
			}
		})
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		WorkDir:       types.FilesystemPath(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SourcePath != "" {
		t.Errorf("SourcePath = %q, want empty", cfg.SourcePath)
	}
	if cfg.SteamCmd.User != DefaultUser || !cfg.Game.Validate {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(t, "config.toml", "[game]\napp = 376030\n")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Game.App != 376030 {
		t.Errorf("Game.App = %d, want 376030", cfg.Game.App)
	}
	if cfg.Game.EffectiveWorkshopApp() != 376030 {
		t.Errorf("EffectiveWorkshopApp() = %d, want App", cfg.Game.EffectiveWorkshopApp())
	}
	if cfg.SteamCmd.User != DefaultUser || cfg.SteamCmd.RetryBackoff != DefaultRetryBackoff || !cfg.Game.Validate {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_SearchOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), "[game]\napp = 1\n")
	testutil.MustWriteFile(t, filepath.Join(dir, "config.yaml"), "game:\n  app: 2\n")
	testutil.MustWriteFile(t, filepath.Join(work, "config.cue"), "game: app: 3\n")

	opts := LoadOptions{ConfigDirPath: types.FilesystemPath(dir), WorkDir: types.FilesystemPath(work)}
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Game.App != 1 {
		t.Errorf("Game.App = %d, want 1 (config dir toml before yaml and working dir)", cfg.Game.App)
	}

	opts.ConfigDirPath = types.FilesystemPath(t.TempDir())
	cfg, err = NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Game.App != 3 {
		t.Errorf("Game.App = %d, want 3 (working dir fallback)", cfg.Game.App)
	}
}

func TestLoad_ProcessWorkingDirectory(t *testing.T) {
	// Not parallel: changes the process working directory.
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "game:\n  app: 4\n")
	t.Cleanup(testutil.MustChdir(t, work))

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Game.App != 4 {
		t.Errorf("Game.App = %d, want 4 from the working directory", cfg.Game.App)
	}
	if filepath.Base(cfg.SourcePath) != "config.yaml" {
		t.Errorf("SourcePath = %q, want config.yaml", cfg.SourcePath)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	explicit := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "custom.yaml"), "steamcmd:\n  user: explicit\n")
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `steamcmd: user: "ignored"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(explicit),
		ConfigDirPath:  types.FilesystemPath(dir),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SteamCmd.User != "explicit" {
		t.Errorf("User = %q, want explicit", cfg.SteamCmd.User)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(missing)})
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !errors.Is(err, ErrConfigIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v should match ErrConfigIO and fs.ErrNotExist", err)
	}
	if id, ok := issue.IssueOf(err); !ok || id != issue.ConfigNotFoundId {
		t.Errorf("IssueOf() = (%d, %v), want ConfigNotFoundId", id, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"cue syntax", "config.cue", `game: {app: `},
		{"toml syntax", "config.toml", "[game\napp = 1"},
		{"yaml syntax", "config.yaml", "game:\n  app: [1,\n"},
		{"json syntax", "config.json", `{"game": }`},
		{"unknown top-level field", "config.toml", "colour = 'red'\n"},
		{"unknown nested field", "config.cue", `steamcmd: password: "hunter2"`},
		{"app out of range", "config.yaml", "game:\n  app: 4294967296\n"},
		{"negative mod id", "config.cue", `servers: a: mods: [-1]`},
		{"mod entry of wrong type", "config.toml", "[servers.a]\nmods = ['ace']\n"},
		{"mod without id", "config.json", `{"servers": {"a": {"mods": [{"name": "x"}]}}}`},
		{"bad log level", "config.toml", "[log]\nlevel = 'verbose'\n"},
		{"bad duration", "config.yaml", "steamcmd:\n  retry_backoff: soon\n"},
		{"empty user", "config.cue", `steamcmd: user: ""`},
		{"too many retries", "config.cue", `steamcmd: retries: 100`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadFrom(t, tt.file, tt.content)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !errors.Is(err, ErrConfigParse) {
				t.Errorf("error should wrap ErrConfigParse, got: %v", err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be an *issue.ActionableError, got %T", err)
			}
			if ae.Issue != issue.ConfigLoadFailedId || !ae.HasSuggestions() {
				t.Errorf("ActionableError = %+v, want ConfigLoadFailedId with suggestions", ae)
			}
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not enforced the same way on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), "")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if !errors.Is(err, ErrConfigIO) {
		t.Errorf("Load() error = %v, want ErrConfigIO", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: "  "})
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("Load() error = %v, want ErrInvalidLoadOptions", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "MODCTL_STEAMCMD_USER", "envuser"))
	t.Cleanup(testutil.MustSetenv(t, "MODCTL_GAME_APP", "294420"))
	t.Cleanup(testutil.MustSetenv(t, "MODCTL_GAME_VALIDATE", "false"))
	t.Cleanup(testutil.MustSetenv(t, "MODCTL_STEAMCMD_RETRY_BACKOFF", "2s"))

	cfg, err := loadFrom(t, "config.toml", "[steamcmd]\nuser = 'fileuser'\n\n[game]\napp = 1\n")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SteamCmd.User != "envuser" {
		t.Errorf("User = %q, want env override", cfg.SteamCmd.User)
	}
	if cfg.Game.App != 294420 {
		t.Errorf("Game.App = %d, want env override", cfg.Game.App)
	}
	if cfg.Game.Validate {
		t.Error("Validate = true, want env override false")
	}
	if cfg.SteamCmd.RetryBackoff != 2*time.Second {
		t.Errorf("RetryBackoff = %s, want 2s", cfg.SteamCmd.RetryBackoff)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "MODCTL_LOG_LEVEL", "loud"))

	_, err := loadFrom(t, "config.cue", "")
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Load() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestConfigDir(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/tmp/override")
	if dir, err := ConfigDir(); err != nil || dir != "/tmp/override" {
		t.Errorf("ConfigDir() with override = (%q, %v)", dir, err)
	}
	Reset()

	if runtime.GOOS != "linux" {
		return
	}
	xdg := t.TempDir()
	t.Cleanup(testutil.MustSetenv(t, "XDG_CONFIG_HOME", xdg))
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))
	t.Cleanup(testutil.MustUnsetenv(t, "XDG_CONFIG_HOME"))
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() without XDG_CONFIG_HOME error = %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() without XDG_CONFIG_HOME = %q, want %q", dir, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "modctl")

	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = (%q, %v), want new config.cue", path, created)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.SteamCmd.User != DefaultUser {
		t.Errorf("generated config User = %q", cfg.SteamCmd.User)
	}

	again, created, err := CreateDefaultConfig(dir)
	if err != nil || created || again != path {
		t.Errorf("second CreateDefaultConfig() = (%q, %v, %v), want existing file untouched", again, created, err)
	}
}

func TestCreateDefaultConfig_KeepsOtherFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := testutil.MustWriteFile(t, filepath.Join(dir, "config.yaml"), "game:\n  app: 1\n")

	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if created || path != existing {
		t.Errorf("CreateDefaultConfig() = (%q, %v), want existing yaml", path, created)
	}
}

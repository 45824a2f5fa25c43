// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "9f1c2ab"
		BuildDate = "2026-03-02T08:00:00Z"

		want := "v0.3.0 (commit: 9f1c2ab, built: 2026-03-02T08:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestNewRootCommand_Tree(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())
	root := NewRootCommand(h.app)

	for _, path := range [][]string{
		{"servers"},
		{"servers", "show"},
		{"plan"},
		{"install"},
		{"shell"},
		{"config", "show"},
		{"config", "path"},
		{"config", "init"},
		{"config", "dump"},
		{"completion"},
	} {
		found, _, err := root.Find(path)
		if err != nil || found.Name() != path[len(path)-1] {
			t.Errorf("command %q not registered (err: %v)", strings.Join(path, " "), err)
		}
	}

	for _, flag := range []string{"config", "verbose", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("global flag --%s not registered", flag)
		}
	}
	if root.PersistentFlags().ShorthandLookup("v") == nil {
		t.Error("-v shorthand not registered")
	}
}

func TestInstallFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())
	installCmd, _, err := NewRootCommand(h.app).Find([]string{"install"})
	if err != nil {
		t.Fatalf("Find(install) error = %v", err)
	}
	for _, flag := range []string{"install-dir", "user", "no-validate", "skip-app", "skip-mods", "dry-run"} {
		if installCmd.Flags().Lookup(flag) == nil {
			t.Errorf("install flag --%s not registered", flag)
		}
	}
}

func TestServerNameCompletion(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig())
	if err := h.run("__complete", "install", ""); err != nil {
		t.Fatalf("__complete error = %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "main") || !strings.Contains(out, "vanilla") {
		t.Errorf("completion output missing server names:\n%s", out)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("steamcmd exited with code 8")
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{name: "with cause", err: &ExitError{Code: 8, Err: cause}, want: cause.Error()},
		{name: "code only", err: &ExitError{Code: 5}, want: "exit status 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
	if !errors.Is(&ExitError{Code: 8, Err: cause}, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
}

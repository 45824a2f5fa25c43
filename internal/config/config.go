// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/modctl/modctl/internal/issue"
	"github.com/modctl/modctl/pkg/cueutil"
	"github.com/modctl/modctl/pkg/platform"
	"github.com/modctl/modctl/pkg/serverconfig"
)

const (
	// AppName is the application name.
	AppName = "modctl"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// EnvPrefix prefixes environment overrides, e.g. MODCTL_STEAMCMD_USER.
	EnvPrefix = "MODCTL"
)

// ConfigDir returns the modctl configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration with default options.
func Load(ctx context.Context) (*Config, error) {
	return loadWithOptions(ctx, LoadOptions{})
}

// FindConfigFile returns the first existing config file, searching
// <dir>/config.{cue,toml,yaml,yml,json} and then the same names in workDir.
// The boolean is false when no file exists.
func FindConfigFile(dir, workDir string) (string, bool) {
	for _, base := range []string{dir, workDir} {
		for _, ext := range searchExtensions {
			path := filepath.Join(base, ConfigFileName+ext)
			if fileExists(path) {
				return path, true
			}
		}
	}
	return "", false
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := newViper()

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}

	servers := serverconfig.New(nil)
	if path != "" {
		doc, err := readDocument(path)
		if err != nil {
			return nil, loadError(path, err)
		}

		rawServers, hasServers := doc[serverconfig.KeyServers]
		delete(doc, serverconfig.KeyServers)

		if err := v.MergeConfigMap(doc); err != nil {
			return nil, loadError(path, &ConfigParseError{Path: path, Err: err})
		}
		if hasServers {
			servers, err = serverconfig.FromData(map[string]any{serverconfig.KeyServers: rawServers})
			if err != nil {
				return nil, loadError(path, &ConfigParseError{Path: path, Err: err})
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, loadError(path, &ConfigParseError{Path: path, Err: err})
	}
	cfg.Servers = servers
	cfg.SourcePath = path

	if valid, errs := cfg.IsValid(); !valid {
		return nil, loadError(path, &ConfigParseError{Path: path, Err: errors.Join(errs...)})
	}

	return &cfg, nil
}

// newViper returns a Viper instance holding the defaults and reading
// MODCTL_* environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("steamcmd.binary_path", defaults.SteamCmd.BinaryPath)
	v.SetDefault("steamcmd.install_dir", defaults.SteamCmd.InstallDir)
	v.SetDefault("steamcmd.user", defaults.SteamCmd.User)
	v.SetDefault("steamcmd.retries", defaults.SteamCmd.Retries)
	v.SetDefault("steamcmd.retry_backoff", defaults.SteamCmd.RetryBackoff)
	v.SetDefault("game.app", defaults.Game.App)
	v.SetDefault("game.workshop_app", defaults.Game.WorkshopApp)
	v.SetDefault("game.validate", defaults.Game.Validate)
	v.SetDefault("log.level", defaults.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolveConfigPath returns the file to load, or "" when none exists and
// defaults apply. An explicit ConfigFilePath must exist.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if !opts.ConfigFilePath.IsZero() {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigNotFoundId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'modctl config init' to create a default configuration").
				Wrap(&ConfigIOError{Path: path, Err: fs.ErrNotExist}).
				BuildError()
		}
		return path, nil
	}

	dir := opts.ConfigDirPath.String()
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}

	workDir := opts.WorkDir.String()
	if workDir == "" {
		workDir = "."
	}

	path, _ := FindConfigFile(dir, workDir)
	return path, nil
}

// readDocument reads, parses and schema-checks a config file of any
// supported format.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigIOError{Path: path, Err: err}
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	return doc, nil
}

func loadError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId)

	var ioErr *ConfigIOError
	if errors.As(err, &ioErr) {
		ctx.WithSuggestion("Check that the file exists and is readable")
	} else {
		ctx.WithSuggestion("Check the field path in the message above against the schema").
			WithSuggestion("See 'modctl config show' for a valid configuration")
	}
	return ctx.Wrap(err).BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into dir (ConfigDir when
// empty) unless a config file of any supported format already exists there.
// It returns the path of the existing or created file and whether it was
// created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}

	for _, ext := range searchExtensions {
		if path := filepath.Join(dir, ConfigFileName+ext); fileExists(path) {
			return path, false, nil
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, &ConfigIOError{Path: dir, Err: err}
	}

	path := filepath.Join(dir, ConfigFileName+".cue")
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, &ConfigIOError{Path: path, Err: err}
	}
	return path, true, nil
}

// Document converts cfg into the generic shape accepted by the #Config
// schema. Unset optional paths and a zero workshop app are omitted.
func Document(cfg *Config) map[string]any {
	steam := map[string]any{
		"user":          cfg.SteamCmd.User,
		"retries":       int64(cfg.SteamCmd.Retries),
		"retry_backoff": cfg.SteamCmd.RetryBackoff.String(),
	}
	if cfg.SteamCmd.BinaryPath != "" {
		steam["binary_path"] = cfg.SteamCmd.BinaryPath.String()
	}
	if !cfg.SteamCmd.InstallDir.IsZero() {
		steam["install_dir"] = cfg.SteamCmd.InstallDir.String()
	}

	game := map[string]any{
		"app":      int64(cfg.Game.App),
		"validate": cfg.Game.Validate,
	}
	if cfg.Game.WorkshopApp != 0 {
		game["workshop_app"] = int64(cfg.Game.WorkshopApp)
	}

	doc := map[string]any{
		"steamcmd": steam,
		"game":     game,
		"log":      map[string]any{"level": cfg.Log.Level.String()},
	}

	servers := cfg.Servers.Servers()
	if len(servers) > 0 {
		out := make(map[string]any, len(servers))
		for name, server := range servers {
			mods := make([]any, 0, server.Len())
			for _, m := range server.Mods() {
				if n, ok := m.Name(); ok {
					mods = append(mods, map[string]any{"id": int64(m.ID()), "name": n})
				} else {
					mods = append(mods, int64(m.ID()))
				}
			}
			out[name] = map[string]any{"mods": mods}
		}
		doc[serverconfig.KeyServers] = out
	}
	return doc
}

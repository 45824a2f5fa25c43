// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modctl/modctl/internal/app/install"
	"github.com/modctl/modctl/internal/config"
	"github.com/modctl/modctl/internal/issue"
	"github.com/modctl/modctl/internal/logging"
	"github.com/modctl/modctl/internal/runner"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

type (
	// ConfigProvider loads configuration. config.Provider implements it.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RunnerFactory builds the process runner for a resolved steamcmd path.
	RunnerFactory func(binaryPath string, opts ...runner.Option) install.ProcessRunner

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every command handler receives an App and
	// delegates to the install service through it.
	App struct {
		Config    ConfigProvider
		NewRunner RunnerFactory
		LookPath  func(name string) (string, error)
		Getenv    func(key string) string

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		logger *slog.Logger

		// Global flag values, bound by NewRootCommand.
		configPath string
		verbose    bool
		logLevel   string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		NewRunner RunnerFactory
		LookPath  func(name string) (string, error)
		Getenv    func(key string) string
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) (*App, error) {
	app := &App{
		Config:    deps.Config,
		NewRunner: deps.NewRunner,
		LookPath:  deps.LookPath,
		Getenv:    deps.Getenv,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewRunner == nil {
		app.NewRunner = func(binaryPath string, opts ...runner.Option) install.ProcessRunner {
			return runner.New(binaryPath, opts...)
		}
	}
	if app.LookPath == nil {
		app.LookPath = steamcmd.LookPath
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.logger = logging.New(app.stderr, logging.Options{Level: slog.LevelInfo})
	return app, nil
}

// loadConfig loads configuration honoring --config and reconfigures the
// logger from the resulting level.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
	if err != nil {
		return nil, err
	}
	if err := a.configureLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configureLogging picks the log level: --log-level, then --verbose (debug),
// then log.level from configuration (which MODCTL_LOG_LEVEL overrides).
func (a *App) configureLogging(cfg *config.Config) error {
	raw := cfg.Log.Level.String()
	switch {
	case a.logLevel != "":
		raw = a.logLevel
	case a.verbose:
		raw = string(config.LogLevelDebug)
	}
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return err
	}
	a.logger = logging.New(a.stderr, logging.Options{
		Level:      level,
		Timestamps: a.verbose,
		Caller:     a.verbose && level <= slog.LevelDebug,
	})
	return nil
}

// planner returns a Service for rendering only; it never starts steamcmd.
func (a *App) planner(cfg *config.Config) *install.Service {
	return install.NewService(cfg.Servers, nil, install.WithLogger(a.logger))
}

// newService resolves the steamcmd executable and builds the install
// service around a runner configured from cfg.
func (a *App) newService(cfg *config.Config) (*install.Service, error) {
	binary := a.binaryName(cfg)
	path, err := a.LookPath(binary)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate steamcmd").
			WithResource(binary).
			WithIssue(issue.SteamCmdNotFoundId).
			WithSuggestion(fmt.Sprintf("Install steamcmd or set %s (or steamcmd.binary_path) to its path", steamcmd.EnvBinary)).
			Wrap(err).
			BuildError()
	}
	a.logger.Debug("resolved steamcmd", "binary", binary, "path", path)

	r := a.NewRunner(path,
		runner.WithStdin(a.stdin),
		runner.WithStdout(a.stdout),
		runner.WithStderr(a.stderr),
		runner.WithRetries(cfg.SteamCmd.Retries, cfg.SteamCmd.RetryBackoff),
		runner.WithLogger(a.logger),
	)
	return install.NewService(cfg.Servers, r, install.WithLogger(a.logger)), nil
}

// binaryName is the executable name shown in dry runs and looked up for real ones.
func (a *App) binaryName(cfg *config.Config) string {
	return steamcmd.BinaryName(a.Getenv, cfg.SteamCmd.BinaryPath.String())
}

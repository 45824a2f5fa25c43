// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/logging"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree. It is called
// by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			// Command handlers render their own failures and return ExitError.
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return
			}
			renderServiceError(w, toServiceError(err, app.verbose))
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// NewRootCommand assembles the modctl command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modctl",
		Short: "Install dedicated servers and their Steam Workshop mods with steamcmd",
		Long: TitleStyle.Render("modctl") + SubtitleStyle.Render(" - steamcmd driver for modded dedicated servers") + `

modctl reads a list of servers and the workshop mods each one needs, then
renders and runs the steamcmd invocation that installs them.

` + SubtitleStyle.Render("Examples:") + `
  modctl servers                List configured servers
  modctl plan main --quoted     Print the steamcmd command line for 'main'
  modctl install main           Install the app and mods of 'main'
  modctl shell                  Open a logged-in steamcmd prompt
  modctl config init            Create a default configuration file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.logLevel == "" {
				return nil
			}
			if _, err := logging.ParseLevel(app.logLevel); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			return nil
		},
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default is <config dir>/modctl/config.{cue,toml,yaml,json})")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newServersCommand(app),
		newPlanCommand(app),
		newInstallCommand(app),
		newShellCommand(app),
		newConfigCommand(app),
		newCompletionCommand(),
	)
	return rootCmd
}

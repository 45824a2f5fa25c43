// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/app/install"
)

// newInstallCommand creates `modctl install <server>`.
func newInstallCommand(app *App) *cobra.Command {
	var (
		flags  requestFlags
		dryRun bool
	)

	installCmd := &cobra.Command{
		Use:   "install <server>",
		Short: "Install a server's dedicated server app and workshop mods",
		Long: `Install a server's dedicated server app and workshop mods.

modctl renders one steamcmd invocation (install directory, login, app update,
one download per distinct mod, quit) and runs it, streaming steamcmd's output.
A non-zero steamcmd exit status is retried steamcmd.retries times and becomes
modctl's own exit status when retries run out.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeServerNames(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			req := flags.apply(cmd, install.NewRequest(cfg, args[0]))

			if dryRun {
				planned, err := app.planner(cfg).Plan(req)
				if err != nil {
					return app.fail(cmd, err)
				}
				line, err := planned.CommandLine(app.binaryName(cfg))
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("Dry run, would execute:"))
				fmt.Fprintln(app.stdout, "  "+CmdStyle.Render(line))
				return nil
			}

			svc, err := app.newService(cfg)
			if err != nil {
				return app.fail(cmd, err)
			}
			report, err := svc.Install(cmd.Context(), req)
			if err != nil {
				return app.fail(cmd, err)
			}
			renderReport(app.stdout, req.Server, report)
			return nil
		},
	}

	flags.bindInstall(installCmd)
	installCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the steamcmd command line instead of running it")
	return installCmd
}

// renderReport prints the outcome of a successful install.
func renderReport(w io.Writer, server string, report *install.Report) {
	downloaded, attempts := 0, 1
	var took time.Duration
	if report.Result != nil {
		downloaded = len(report.Result.Downloaded)
		attempts = report.Result.Attempts
		took = report.Result.Duration.Round(time.Second)
	}

	summary := fmt.Sprintf("Installed %s: %d of %d mods downloaded", server, downloaded, len(report.Planned))
	if took > 0 {
		summary += " in " + took.String()
	}
	fmt.Fprintln(w, SuccessStyle.Render("✓ ")+summary)
	if attempts > 1 {
		fmt.Fprintln(w, VerboseStyle.Render(fmt.Sprintf("  succeeded after %d attempts", attempts)))
	}

	if len(report.Missing) > 0 {
		fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("! %d mods were not confirmed by steamcmd:", len(report.Missing))))
		for _, item := range report.Missing {
			fmt.Fprintf(w, "  %s %s\n", idColumnStyle.Render(item.String()), CmdStyle.Render(item.URL()))
		}
	}
	fmt.Fprintln(w, VerboseStyle.Render("  run "+report.RunID))
}

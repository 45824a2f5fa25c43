// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/app/install"
)

// newPlanCommand creates `modctl plan <server>`.
func newPlanCommand(app *App) *cobra.Command {
	var (
		flags  requestFlags
		quoted bool
	)

	planCmd := &cobra.Command{
		Use:   "plan <server>",
		Short: "Print the steamcmd arguments that install a server",
		Long: `Print the steamcmd arguments that install a server without running anything.

By default the tokens are printed space-separated. With --quoted the output is
a complete command line, with the steamcmd executable and shell quoting, that
can be pasted into a POSIX shell.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeServerNames(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			req := flags.apply(cmd, install.NewRequest(cfg, args[0]))
			planned, err := app.planner(cfg).Plan(req)
			if err != nil {
				return app.fail(cmd, err)
			}

			if !quoted {
				fmt.Fprintln(app.stdout, planned.String())
				return nil
			}
			line, err := planned.CommandLine(app.binaryName(cfg))
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, line)
			return nil
		},
	}

	flags.bindInstall(planCmd)
	planCmd.Flags().BoolVar(&quoted, "quoted", false, "print a shell-safe command line including the steamcmd executable")
	return planCmd
}

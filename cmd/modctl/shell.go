// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/app/install"
)

// newShellCommand creates `modctl shell`.
func newShellCommand(app *App) *cobra.Command {
	var flags requestFlags

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive steamcmd session",
		Long: `Open an interactive steamcmd session that is already pointed at the install
directory and logged in, leaving steamcmd at its prompt. Requires a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			svc, err := app.newService(cfg)
			if err != nil {
				return app.fail(cmd, err)
			}

			req := flags.apply(cmd, install.NewRequest(cfg, ""))
			code, err := svc.Shell(cmd.Context(), req)
			if err != nil {
				return app.fail(cmd, err)
			}
			if code != 0 {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	flags.bindSession(shellCmd)
	return shellCmd
}

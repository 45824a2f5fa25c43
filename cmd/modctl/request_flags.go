// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/app/install"
	"github.com/modctl/modctl/pkg/types"
)

// requestFlags holds the flags shared by plan, install and shell. Only flags
// the user set override configuration.
type requestFlags struct {
	installDir string
	user       string
	noValidate bool
	skipApp    bool
	skipMods   bool
}

func (f *requestFlags) bindSession(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.installDir, "install-dir", "", "steamcmd install directory (overrides steamcmd.install_dir)")
	cmd.Flags().StringVar(&f.user, "user", "", "Steam account to log in as (overrides steamcmd.user)")
}

func (f *requestFlags) bindInstall(cmd *cobra.Command) {
	f.bindSession(cmd)
	cmd.Flags().BoolVar(&f.noValidate, "no-validate", false, "do not validate the app files after updating")
	cmd.Flags().BoolVar(&f.skipApp, "skip-app", false, "skip the dedicated server app update")
	cmd.Flags().BoolVar(&f.skipMods, "skip-mods", false, "skip workshop mod downloads")
}

// apply overrides req with the flags set on cmd.
func (f *requestFlags) apply(cmd *cobra.Command, req install.Request) install.Request {
	if cmd.Flags().Changed("install-dir") {
		req.InstallDir = types.FilesystemPath(f.installDir)
	}
	if cmd.Flags().Changed("user") {
		req.User = f.user
		req.HasUser = true
	}
	if f.noValidate {
		req.Validate = false
	}
	req.SkipApp = req.SkipApp || f.skipApp
	req.SkipMods = req.SkipMods || f.skipMods
	return req
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/config"
)

// newConfigCommand creates the `modctl config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modctl configuration",
		Long: `Manage modctl configuration.

The first of config.cue, config.toml, config.yaml, config.yml and config.json
found in the modctl config directory, then in the working directory, is
loaded. MODCTL_* environment variables override file values
(for example MODCTL_STEAMCMD_USER or MODCTL_LOG_LEVEL).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(app.stdout, cfg, app.binaryName(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration directory and the loaded file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("directory:"), dir)
			if cfg.SourcePath == "" {
				fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("file:     "), VerboseStyle.Render("(none, using defaults)"))
				return nil
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("file:     "), cfg.SourcePath)
			return nil
		},
	})

	var initDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config.cue",
		Long: `Create a default config.cue in the modctl config directory (or --dir).
Nothing is written when a config file of any supported format already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(initDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			if !created {
				fmt.Fprintln(app.stdout, WarningStyle.Render("Config already exists: ")+path)
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ Created ")+path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initDir, "dir", "", "directory to create the config in (default is the modctl config directory)")
	cfgCmd.AddCommand(initCmd)

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration in a config file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return app.fail(cmd, err)
			}
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			data, err := config.Encode(cfg, f)
			if err != nil {
				return app.fail(cmd, err)
			}
			_, err = app.stdout.Write(data)
			return err
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format: cue, toml, yaml, json")
	_ = dumpCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"cue", "toml", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp))
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, binary string) {
	source := cfg.SourcePath
	if source == "" {
		source = "(defaults)"
	}

	fmt.Fprintln(w, TitleStyle.Render("Configuration"))
	fmt.Fprintf(w, "  %s %s\n\n", SubtitleStyle.Render("source:"), source)

	fmt.Fprintln(w, TitleStyle.Render("steamcmd"))
	row(w, "binary", binary)
	row(w, "install_dir", orUnset(cfg.SteamCmd.InstallDir.String()))
	row(w, "user", cfg.SteamCmd.User)
	row(w, "retries", fmt.Sprint(cfg.SteamCmd.Retries))
	row(w, "retry_backoff", cfg.SteamCmd.RetryBackoff.String())
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("game"))
	row(w, "app", orUnset(appString(uint32(cfg.Game.App))))
	row(w, "workshop_app", orUnset(appString(uint32(cfg.Game.EffectiveWorkshopApp()))))
	row(w, "validate", fmt.Sprint(cfg.Game.Validate))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("log"))
	row(w, "level", cfg.Log.Level.String())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %d configured\n", TitleStyle.Render("servers"), cfg.Servers.Len())
}

func row(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%-14s", key+":")), value)
}

func orUnset(s string) string {
	if s == "" {
		return VerboseStyle.Render("(unset)")
	}
	return s
}

func appString(id uint32) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprint(id)
}


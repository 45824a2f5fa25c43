// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modctl/modctl/internal/app/install"
	"github.com/modctl/modctl/internal/config"
	"github.com/modctl/modctl/pkg/serverconfig"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

// newServersCommand creates `modctl servers` and `modctl servers show`.
func newServersCommand(app *App) *cobra.Command {
	serversCmd := &cobra.Command{
		Use:   "servers",
		Short: "List configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			listServers(app.stdout, cfg)
			return nil
		},
	}

	serversCmd.AddCommand(&cobra.Command{
		Use:               "show <server>",
		Short:             "List the mods of a server",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeServerNames(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			server, ok := cfg.Servers.Get(args[0])
			if !ok {
				_, err := app.planner(cfg).Plan(install.Request{Server: args[0]})
				return app.fail(cmd, err)
			}
			showServer(app.stdout, args[0], server, cfg.Game.EffectiveWorkshopApp())
			return nil
		},
	})

	return serversCmd
}

func listServers(w io.Writer, cfg *config.Config) {
	if cfg.Servers.Len() == 0 {
		fmt.Fprintln(w, WarningStyle.Render("No servers configured."))
		fmt.Fprintln(w, SubtitleStyle.Render("Add a [servers] section to the configuration file ('modctl config path' shows where)."))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Servers"))
	for _, name := range cfg.Servers.Names() {
		server, _ := cfg.Servers.Get(name)
		unique := len(server.UniqueMods())
		counts := fmt.Sprintf("%d mods", unique)
		if unique == 1 {
			counts = "1 mod"
		}
		if dup := server.Len() - unique; dup > 0 {
			counts += VerboseStyle.Render(fmt.Sprintf(" (%d duplicate)", dup))
		}
		fmt.Fprintf(w, "  %s %s\n", nameColumnStyle.Render(name), counts)
	}
}

func showServer(w io.Writer, name string, server serverconfig.Server, workshopApp steamcmd.App) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(name), SubtitleStyle.Render(fmt.Sprintf("(%d mods)", server.Len())))
	if server.Len() == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  no mods"))
		return
	}
	if workshopApp != 0 {
		fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("  workshop app %d", workshopApp)))
	}
	for _, m := range server.Mods() {
		item := steamcmd.WorkshopItem(m.ID())
		label, _ := m.Name()
		fmt.Fprintf(w, "  %s %s %s\n", idColumnStyle.Render(item.String()), nameColumnStyle.Render(label), CmdStyle.Render(item.URL()))
	}
}

// completeServerNames completes configured server names. Load errors yield
// no candidates.
func completeServerNames(app *App) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: types.FilesystemPath(app.configPath)})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.Servers.Names(), cobra.ShellCompDirectiveNoFileComp
	}
}

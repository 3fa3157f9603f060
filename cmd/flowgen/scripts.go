package main

import (
	"github.com/aretw0/flowgen/internal/cli"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/spf13/cobra"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage saved scripts",
	Long:  `Saves, lists and exports graphs in the store configured in flowgen.yaml (memory, file, redis or sqlite).`,
}

// withStore runs fn with the configured store open.
func withStore(cmd *cobra.Command, fn func(env *cli.Env, store ports.ScriptStore) error) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := cli.OpenStore(cmd.Context(), env.Config.Store, env.Logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(env, store)
}

var scriptsSaveCmd = &cobra.Command{
	Use:   "save <name> [graph-file]",
	Short: "Save a graph under a name",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env, store ports.ScriptStore) error {
			return cli.SaveScript(cmd.Context(), env, store, args[0], inputArg(args[1:]), cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

var scriptsLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Print a saved graph as an editor document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env, store ports.ScriptStore) error {
			return cli.LoadScript(cmd.Context(), store, args[0], cmd.OutOrStdout())
		})
	},
}

var scriptsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved scripts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env, store ports.ScriptStore) error {
			return cli.ListScripts(cmd.Context(), store, cmd.OutOrStdout())
		})
	},
}

var scriptsDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved script",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(env *cli.Env, store ports.ScriptStore) error {
			return cli.DeleteScript(cmd.Context(), env, store, args[0], cmd.OutOrStdout())
		})
	},
}

var scriptsExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Generate the Lua script of a saved graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return withStore(cmd, func(env *cli.Env, store ports.ScriptStore) error {
			return cli.ExportScript(cmd.Context(), env, store, args[0], out, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.AddCommand(scriptsSaveCmd, scriptsLoadCmd, scriptsListCmd, scriptsDeleteCmd, scriptsExportCmd)

	scriptsExportCmd.Flags().StringP("out", "o", "", "Write the script to this file (\".lua\" is appended if missing)")
}

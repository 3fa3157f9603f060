package main

import (
	"github.com/aretw0/flowgen/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph-file]",
	Short: "Check the graph for consistency",
	Long: `Lints the graph: missing or duplicate entry points, dangling edges, cycles,
unreachable nodes, and calls that do not match the function catalog.
Warnings are printed; only errors make the command fail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return cli.Validate(cmd.Context(), env, inputArg(args), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

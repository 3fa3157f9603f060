package main

import (
	"github.com/aretw0/flowgen/internal/cli"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [function]",
	Short: "List the API functions available to function nodes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return cli.Catalog(env, name, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

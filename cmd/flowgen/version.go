package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowgen"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowgen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flowgen version %s\n", strings.TrimSpace(flowgen.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

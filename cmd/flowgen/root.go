package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowgen/internal/cli"
	"github.com/aretw0/flowgen/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowgen",
	Short: "flowgen turns flow graphs into Lua automation scripts",
	Long: `flowgen reads a node graph drawn in the flow editor (start, function calls,
variables, conditions, a main loop, comments) and generates the equivalent
Lua script calling the automation API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the flowgen config file")
	rootCmd.PersistentFlags().String("catalog", "", "Function catalog (YAML/JSON) replacing the built-in one")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject unknown node types and edge handles")
}

// setup resolves persistent flags and the config file into a CLI environment.
func setup(cmd *cobra.Command) (*cli.Env, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	catalogPath, _ := flags.GetString("catalog")
	debug, _ := flags.GetBool("debug")
	strict, _ := flags.GetBool("strict")

	return cli.Setup(cli.Options{
		ConfigPath:  configPath,
		CatalogPath: catalogPath,
		Debug:       debug,
		Strict:      strict,
	})
}

// inputArg returns the graph file argument, defaulting to stdin.
func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cli.Stdin
}

package main

import (
	"github.com/aretw0/flowgen/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate [graph-file]",
	Aliases: []string{"gen"},
	Short:   "Generate a Lua script from a flow graph",
	Long: `Reads an editor graph document (JSON or YAML) from a file, or stdin when the
argument is omitted or "-", and writes the generated Lua script.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		pretty, _ := cmd.Flags().GetBool("pretty")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Generate(ctx, env, cli.GenerateOptions{
			Input:  inputArg(args),
			Output: out,
			Pretty: pretty,
			Watch:  watch,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("out", "o", "", "Write the script to this file instead of stdout")
	generateCmd.Flags().Bool("pretty", false, "Syntax-highlight the script (stdout only)")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the graph file changes")
}

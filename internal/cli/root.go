package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "katana",
	Short: "Automated benchmarking of PC games",
	Long: `Katana launches a game, navigates its menus with template matching,
runs the built-in benchmark several times and collects the results.

Without a subcommand it starts an interactive run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation behaves like `katana run` in interactive mode
		return runBenchmark(cmd, args)
	},
}

// Execute runs the CLI
func Execute() error {
	fmt.Println(banner())
	return rootCmd.Execute()
}

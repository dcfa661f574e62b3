// Package cmd wires the cobra CLI: run, batch, and lint subcommands over
// the scenario/runner/report/lint packages. Grounded on
// internal/tester/cmd's command-group shape (root command plus
// per-verb subcommand files), pared down to this module's three verbs.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowrunner",
	Short: "Run YAML browser-automation scenarios",
	RunE:  requireSubcommand,
}

// Execute runs the root command; cmd/flowrunner/main.go's sole call.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(lintCmd)
}

func requireSubcommand(cmd *cobra.Command, _ []string) error {
	return fmt.Errorf("a subcommand is required; see %q --help", cmd.CommandPath())
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kawanishi0117/flowrunner/internal/lint"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

var lintCmd = &cobra.Command{
	Use:   "lint <scenario.yaml>",
	Short: "Run advisory checks against a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	s, errs := scenario.LoadFile(args[0])
	if len(errs) > 0 {
		return fmt.Errorf("scenario validation failed: %w", errs)
	}

	issues := lint.Lint(s)
	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(out, "no issues found")
		return nil
	}

	var errorCount int
	for _, issue := range issues {
		fmt.Fprintf(out, "line %d [%s] %s: %s (%s)\n", issue.Line, issue.Severity, issue.StepName, issue.Message, issue.Rule)
		if issue.Severity == lint.SeverityError {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d lint error(s) found", errorCount)
	}
	return nil
}

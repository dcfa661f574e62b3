package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kawanishi0117/flowrunner/internal/report"
	"github.com/kawanishi0117/flowrunner/internal/runner"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/steps"
)

var (
	runHeaded     bool
	runTimeoutSec int
	runOutputDir  string
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a single scenario",
	Long: `Run a single YAML browser-automation scenario.

Examples:
  flowrunner run scenarios/signup.yaml
  flowrunner run scenarios/signup.yaml --headed
  flowrunner run scenarios/signup.yaml --timeout 60`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runHeaded, "headed", false, "show the browser window")
	runCmd.Flags().IntVar(&runTimeoutSec, "timeout", 30, "per-step timeout in seconds")
	runCmd.Flags().StringVar(&runOutputDir, "output", "artifacts", "artifacts output directory")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, errs := scenario.LoadFile(args[0])
	if len(errs) > 0 {
		return fmt.Errorf("scenario validation failed: %w", errs)
	}

	cfg := runner.DefaultConfig()
	cfg.Headless = !runHeaded
	cfg.StepTimeout = time.Duration(runTimeoutSec) * time.Second
	cfg.ArtifactsBase = runOutputDir

	result, err := runner.Run(context.Background(), s, cfg, steps.NewDefaultRegistry())
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if err := report.WriteAll(result.ArtifactsDir, s, result); err != nil {
		fmt.Fprintln(cmd.OutOrStderr(), "report warning:", err)
	}

	printScenarioResult(cmd, result)

	if result.Status == runner.StatusFailed {
		return fmt.Errorf("scenario failed")
	}
	return nil
}

func printScenarioResult(cmd *cobra.Command, result *runner.ScenarioResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", result.Title, result.Status)
	for _, step := range result.Steps {
		mark := "✓"
		if step.Status == runner.StatusFailed {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s %s (%dms)\n", mark, step.Name, step.DurationMs)
		if step.Error != "" {
			fmt.Fprintf(out, "      %s\n", step.Error)
		}
	}
	fmt.Fprintf(out, "Artifacts: %s\n", result.ArtifactsDir)
}

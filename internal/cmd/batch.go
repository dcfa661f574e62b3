package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kawanishi0117/flowrunner/internal/report"
	"github.com/kawanishi0117/flowrunner/internal/runner"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/steps"
)

var (
	batchParallel  int
	batchTimeout   int
	batchOutputDir string
)

var batchCmd = &cobra.Command{
	Use:   "batch <pattern>",
	Short: "Run every scenario matching a glob pattern",
	Long: `Run every scenario file matching a glob pattern, bounded to a
fixed number of concurrent browsers.

Examples:
  flowrunner batch "scenarios/**/*.yaml"
  flowrunner batch "scenarios/*.yaml" --parallel 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchParallel, "parallel", "p", 1, "number of scenarios to run simultaneously")
	batchCmd.Flags().IntVar(&batchTimeout, "timeout", 30, "per-step timeout in seconds")
	batchCmd.Flags().StringVar(&batchOutputDir, "output", "artifacts", "artifacts output directory")
}

// findScenarios expands pattern into a sorted list of matching scenario
// paths, adapted from batch/runner.go's findScenarios: same glob-then-sort
// shape, without the tag-filter/quarantine machinery this module has no
// use for.
func findScenarios(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	paths, err := findScenarios(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenarios matched %q", pattern)
	}

	var runs []runner.ScenarioRun
	for _, path := range paths {
		s, errs := scenario.LoadFile(path)
		if len(errs) > 0 {
			return fmt.Errorf("%s: validation failed: %w", path, errs)
		}
		runs = append(runs, runner.ScenarioRun{
			Scenario: s,
			Name:     scenarioRunName(path),
		})
	}

	cfg := runner.DefaultConfig()
	cfg.Workers = batchParallel
	cfg.StepTimeout = time.Duration(batchTimeout) * time.Second
	cfg.ArtifactsBase = batchOutputDir

	batchID := uuid.NewString()
	fmt.Fprintf(cmd.OutOrStdout(), "Batch: %s\nFound: %d scenarios\n", batchID, len(runs))

	results, err := runner.RunAll(context.Background(), runs, cfg, steps.NewDefaultRegistry())
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	passed, failed := 0, 0
	for i, res := range results {
		if res == nil {
			continue
		}
		if err := report.WriteAll(res.ArtifactsDir, runs[i].Scenario, res); err != nil {
			fmt.Fprintln(cmd.OutOrStderr(), "report warning:", err)
		}
		printScenarioResult(cmd, res)
		if res.Status == runner.StatusFailed {
			failed++
		} else {
			passed++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nBatch complete: %d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("batch completed with failures")
	}
	return nil
}

func scenarioRunName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

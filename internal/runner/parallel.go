package runner

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/steps"
)

// ScenarioRun pairs a loaded scenario with the artifacts subdirectory it
// should run under, so RunAll can give each one its own run directory
// rooted under cfg.ArtifactsBase.
type ScenarioRun struct {
	Scenario *scenario.Scenario
	Name     string
}

// RunAll executes every scenario, bounded to cfg.Workers concurrent
// browsers (spec.md §5's "scheduling" section). Grounded on the
// semaphore-gated Execer pattern, adapted from per-pipeline-step gating
// onto per-scenario gating. Results are returned in input order
// regardless of completion order; a scenario whose context is cancelled
// before it acquires a slot is skipped: its result stays nil, the
// context's error is recorded for it, and RunAll returns the first
// recorded error in input order alongside the results.
func RunAll(ctx context.Context, runs []ScenarioRun, cfg Config, registry *steps.Registry) ([]*ScenarioResult, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	results := make([]*ScenarioResult, len(runs))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i, run := range runs {
		i, run := i, run

		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		default:
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			runCfg := cfg
			runCfg.ArtifactsBase = scenarioArtifactsDir(cfg.ArtifactsBase, run.Name)

			res, err := Run(ctx, run.Scenario, runCfg, registry)
			results[i] = res
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func scenarioArtifactsDir(base, name string) string {
	if name == "" {
		return base
	}
	return base + "/" + name
}

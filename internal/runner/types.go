// Package runner implements the orchestrator described in spec.md §4.6:
// per-scenario browser lifecycle, hook sequencing, per-step timing and
// error capture, and bounded-parallel scenario execution. Grounded on
// internal/tester/batch/runner.go's lifecycle shape, adapted from
// subprocess-driven agent sessions onto direct browser-control calls.
package runner

import "time"

// StepStatus is a StepResult's terminal state.
type StepStatus string

const (
	StatusPassed  StepStatus = "passed"
	StatusFailed  StepStatus = "failed"
	StatusSkipped StepStatus = "skipped"
)

// StepResult records one executed step (spec.md §3). Immutable once the
// runner appends it to a ScenarioResult.
type StepResult struct {
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	Index          int        `json:"index"`
	Status         StepStatus `json:"status"`
	DurationMs     int64      `json:"duration_ms"`
	Error          string     `json:"error,omitempty"`
	ScreenshotPath string     `json:"screenshot_path,omitempty"`
	Section        string     `json:"section,omitempty"`
}

// ScenarioResult aggregates a scenario run (spec.md §3).
type ScenarioResult struct {
	Title        string       `json:"title"`
	Status       StepStatus   `json:"status"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
	DurationMs   int64        `json:"duration_ms"`
	Steps        []StepResult `json:"steps"`
	ArtifactsDir string       `json:"artifacts_dir"`
}

// Config bounds runner behavior. StepTimeout 0 disables per-step timeouts.
type Config struct {
	Headless      bool
	SlowMo        time.Duration
	StepTimeout   time.Duration
	Workers       int
	ArtifactsBase string
}

// DefaultConfig matches spec.md §5's documented defaults.
func DefaultConfig() Config {
	return Config{
		Headless:      true,
		StepTimeout:   30 * time.Second,
		Workers:       1,
		ArtifactsBase: "artifacts",
	}
}

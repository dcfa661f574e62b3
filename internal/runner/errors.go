package runner

import (
	"fmt"
	"time"
)

// StepTimeoutError is raised when a step's dispatch exceeds the
// configured per-step wall-clock budget (spec.md §5, §7).
type StepTimeoutError struct {
	Step   string
	Budget time.Duration
}

func (e *StepTimeoutError) Error() string {
	return fmt.Sprintf("step %q exceeded its %s timeout", e.Step, e.Budget)
}

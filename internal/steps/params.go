package steps

import (
	"fmt"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// StepExecutionError wraps any failure from a handler's Execute, per
// spec.md §7. The runner attaches this around whatever the handler
// returned; handlers themselves return plain errors.
type StepExecutionError struct {
	Step  string
	Cause error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Cause)
}

func (e *StepExecutionError) Unwrap() error { return e.Cause }

// selectorFrom extracts a Selector from a step's params. Selector fields
// may be nested under a "by" key (fill(by, value)) or inlined directly
// alongside non-selector keys like value/secret (click({testId: x})) —
// original_source's linter accepts both shapes (fill_data.get("by",
// fill_data)), so handlers here do too.
func selectorFrom(params map[string]any) (scenario.Selector, error) {
	raw, ok := params["by"]
	if !ok {
		raw = params
	}
	sel, errs := scenario.ParseSelector(raw, "by")
	if len(errs) > 0 {
		return scenario.Selector{}, fmt.Errorf("invalid selector: %s", errs[0].Message)
	}
	return sel, nil
}

func strParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func requireStrParam(params map[string]any, key string) (string, error) {
	s, ok := strParam(params, key)
	if !ok {
		return "", fmt.Errorf("missing required %q parameter", key)
	}
	return s, nil
}

func intParam(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func boolParam(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func frameOf(params map[string]any) string {
	s, _ := strParam(params, "frame")
	return s
}

// expand runs the step context's variable expander over a string
// parameter, if one is present.
func expand(sc *StepContext, s string) (string, error) {
	return sc.Expander.Expand(s)
}

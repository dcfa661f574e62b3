// Package lint implements the advisory static checks described in
// spec.md §4.9: selector fragility and missing-secret hints reported
// alongside a scenario, never blocking execution. Grounded on
// original_source's tool/src/dsl/linter.py, each rule translated from a
// raw-dict walk onto the parsed scenario.Selector sum type.
package lint

import (
	"regexp"
	"sort"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// Severity is a lint issue's severity level.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one lint finding: the step it came from, its position within
// the flattened steps array (1-based), severity, rule name, and message.
type Issue struct {
	StepName string
	Line     int
	Severity Severity
	Rule     string
	Message  string
}

// selectorStepKinds lists step kinds whose params carry a selector,
// mirroring linter.py's _SELECTOR_STEP_KEYS.
var selectorStepKinds = map[string]bool{
	"click": true, "dblclick": true, "fill": true, "press": true,
	"check": true, "uncheck": true, "select_option": true,
	"wait_for": true, "wait_for_visible": true, "wait_for_hidden": true,
	"expect_visible": true, "expect_hidden": true, "expect_text": true,
	"store_text": true, "store_attr": true, "dump_dom": true,
}

var passwordKeywords = regexp.MustCompile(`(?i)(password|パスワード|secret|token|credential|passphrase|pin|暗証)`)

// Lint applies every rule to the scenario's flattened step list, section
// steps expanded in place so line numbers count through nested steps
// (linter.py's _iter_steps). Returns issues sorted by (line, rule) for a
// deterministic report.
func Lint(s *scenario.Scenario) []Issue {
	var issues []Issue
	for _, ls := range iterSteps(s.Steps) {
		for _, check := range []func(scenario.StepEntry, int) *Issue{
			checkTextOnlySelector,
			checkMissingAnyFallback,
			checkMissingSecret,
		} {
			if issue := check(ls.step, ls.line); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Rule < issues[j].Rule
	})
	return issues
}

type linedStep struct {
	line int
	step scenario.StepEntry
}

// iterSteps flattens steps (including nested section steps) into an
// ordered (line, step) sequence, lines counted as a running index over
// the full flattened sequence (linter.py's _iter_steps).
func iterSteps(steps []scenario.StepEntry) []linedStep {
	var out []linedStep
	line := 1
	var walk func([]scenario.StepEntry)
	walk = func(entries []scenario.StepEntry) {
		for _, e := range entries {
			if e.IsSection() {
				walk(e.SectionSteps())
				continue
			}
			out = append(out, linedStep{line: line, step: e})
			line++
		}
	}
	walk(steps)
	return out
}

func checkTextOnlySelector(step scenario.StepEntry, line int) *Issue {
	sel, ok := extractSelector(step)
	if !ok || !sel.IsLeaf() || sel.Text == nil {
		return nil
	}
	if sel.TestId != nil || sel.Role != nil || sel.Label != nil || sel.Placeholder != nil || sel.Css != nil {
		return nil
	}
	return &Issue{
		StepName: stepName(step),
		Line:     line,
		Severity: SeverityWarning,
		Rule:     "text-only-selector",
		Message:  "text selector used alone; prefer testId / role+name / css+text for stability",
	}
}

func checkMissingAnyFallback(step scenario.StepEntry, line int) *Issue {
	sel, ok := extractSelector(step)
	if !ok || sel.Any != nil {
		return nil
	}
	return &Issue{
		StepName: stepName(step),
		Line:     line,
		Severity: SeverityInfo,
		Rule:     "missing-any-fallback",
		Message:  "no any fallback configured; consider listing multiple candidate selectors",
	}
}

func checkMissingSecret(step scenario.StepEntry, line int) *Issue {
	if step.Kind() != "fill" {
		return nil
	}
	if step.Secret() {
		return nil
	}
	for _, text := range passwordHintTexts(step) {
		if passwordKeywords.MatchString(text) {
			return &Issue{
				StepName: stepName(step),
				Line:     line,
				Severity: SeverityWarning,
				Rule:     "missing-secret",
				Message:  "password-like field is missing secret: true; values won't be masked in logs or reports",
			}
		}
	}
	return nil
}

// extractSelector pulls the selector out of a selector-bearing step's
// params, checking the "by" nesting first (selectorFrom's dual shape).
func extractSelector(step scenario.StepEntry) (scenario.Selector, bool) {
	if !selectorStepKinds[step.Kind()] {
		return scenario.Selector{}, false
	}
	params := step.ParamsMap()
	raw, ok := params["by"]
	if !ok {
		raw = params
	}
	sel, errs := scenario.ParseSelector(raw, "")
	if len(errs) > 0 {
		return scenario.Selector{}, false
	}
	return sel, true
}

func stepName(step scenario.StepEntry) string {
	if n := step.Name(); n != "" {
		return n
	}
	if n, ok := step.ParamsMap()["name"].(string); ok && n != "" {
		return n
	}
	if kind := step.Kind(); kind != "" {
		return kind
	}
	return "unknown"
}

func passwordHintTexts(step scenario.StepEntry) []string {
	texts := []string{stepName(step)}
	if name := step.Name(); name != "" {
		texts = append(texts, name)
	}
	params := step.ParamsMap()
	raw, ok := params["by"]
	if !ok {
		raw = params
	}
	if m, ok := raw.(map[string]any); ok {
		for _, key := range []string{"role", "name", "label", "placeholder", "text", "css", "testId"} {
			if v, ok := m[key].(string); ok {
				texts = append(texts, v)
			}
		}
	}
	return texts
}

package scenario

import (
	"fmt"
	"regexp"
)

// refPattern matches the two legal reference forms: ${env.NAME} and
// ${vars.NAME}, grounded on original_source's
// tool/src/dsl/variables.py:_VAR_PATTERN.
var refPattern = regexp.MustCompile(`\$\{(env|vars)\.([A-Za-z_][A-Za-z0-9_]*)\}`)

// unresolvedPattern is the catch-all scan for any ${...} that survived
// substitution — malformed syntax or an unrecognized namespace word.
// Grounded on variables.py:_UNRESOLVED_PATTERN.
var unresolvedPattern = regexp.MustCompile(`\$\{[^}]+\}`)

// UnresolvedVariable is raised when a reference matches the strict grammar
// but its key is absent from the corresponding namespace, or when a
// ${...} substring never matched the grammar at all (namespace "unknown").
type UnresolvedVariable struct {
	Namespace string
	Name      string
}

func (e *UnresolvedVariable) Error() string {
	return fmt.Sprintf("unresolved variable reference: ${%s.%s}", e.Namespace, e.Name)
}

// Expander owns the mutable scenario-variable store exclusively (spec.md
// §3 "Ownership and lifecycle"). It is seeded once with a snapshot of
// Scenario.Vars and the process environment; thereafter only SetVar may
// add entries. Not safe for concurrent use — each scenario run owns its
// own Expander and steps within a run execute strictly serially (§4.2,
// §5), so no internal locking is required.
type Expander struct {
	env  map[string]string
	vars map[string]string
}

// NewExpander seeds the expander with the given environment and variable
// snapshots. Both maps are copied defensively; the caller's maps may be
// mutated afterward without affecting the expander.
func NewExpander(env, vars map[string]string) *Expander {
	e := &Expander{
		env:  make(map[string]string, len(env)),
		vars: make(map[string]string, len(vars)),
	}
	for k, v := range env {
		e.env[k] = v
	}
	for k, v := range vars {
		e.vars[k] = v
	}
	return e
}

// Expand substitutes every ${env.X} / ${vars.X} reference in text.
// Postcondition on success: the result contains no "${...}" substring
// (spec.md §8's "Expansion totality").
func (e *Expander) Expand(text string) (string, error) {
	var firstErr error

	result := refPattern.ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := refPattern.FindStringSubmatch(match)
		namespace, name := sub[1], sub[2]

		var table map[string]string
		if namespace == "env" {
			table = e.env
		} else {
			table = e.vars
		}
		val, ok := table[name]
		if !ok {
			firstErr = &UnresolvedVariable{Namespace: namespace, Name: name}
			return match
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}

	if loc := unresolvedPattern.FindString(result); loc != "" {
		return "", &UnresolvedVariable{Namespace: "unknown", Name: loc}
	}

	return result, nil
}

// ExpandValue recursively applies Expand to every string found inside
// nested maps and slices; non-string leaves pass through unchanged.
// Mirrors variables.py:_expand_value — map keys are never touched, only
// values.
func (e *Expander) ExpandValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			expanded, err := e.ExpandValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.ExpandValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// SetVar adds or overwrites a scenario variable. This is the expander's
// only mutator, used by capture-family step handlers (store_text,
// store_attr).
func (e *Expander) SetVar(name, value string) {
	e.vars[name] = value
}

// Vars returns a defensive copy of the current variable store, for
// read-only inspection.
func (e *Expander) Vars() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

package scenario

import "fmt"

// ValidationError is a single structural or grammatical violation found
// while loading a scenario document. Errors are collected, not
// short-circuited — Load returns every violation it can find in one pass,
// grounded on original_source's DslValidationError(message, location, line).
type ValidationError struct {
	Path    string
	Line    int // 0 if unavailable
	Message string
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is the collected-errors result of a failed Load.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	out := fmt.Sprintf("%d validation errors:", len(e))
	for _, v := range e {
		out += "\n  - " + v.Error()
	}
	return out
}

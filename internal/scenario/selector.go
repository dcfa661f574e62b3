package scenario

import "fmt"

// Selector is the sum type described in spec.md §3: exactly one variant is
// populated per occurrence. Leaf kinds all default Strict to true; Any has
// no strict flag of its own — its Candidates individually carry theirs.
type Selector struct {
	TestId      *TestIdSelector
	Role        *RoleSelector
	Label       *LabelSelector
	Placeholder *PlaceholderSelector
	Css         *CssSelector
	Text        *TextSelector
	Any         *AnySelector
}

// TestIdSelector resolves by a data-testid-equivalent attribute.
type TestIdSelector struct {
	TestId string
	Strict bool
}

// RoleSelector resolves by accessible role, optionally filtered by name.
type RoleSelector struct {
	Role   string
	Name   *string
	Exact  *bool
	Strict bool
}

// LabelSelector resolves by an associated <label> text.
type LabelSelector struct {
	Label  string
	Strict bool
}

// PlaceholderSelector resolves by placeholder attribute text.
type PlaceholderSelector struct {
	Placeholder string
	Strict      bool
}

// CssSelector resolves by a raw CSS selector, optionally filtered by
// contained text.
type CssSelector struct {
	Css    string
	Text   *string
	Strict bool
}

// TextSelector resolves by visible text content.
type TextSelector struct {
	Text   string
	Strict bool
}

// AnySelector tries each candidate leaf in order (§4.3's fallback
// algorithm). Candidates must be leaf-only and non-empty; nesting Any
// inside Any is invalid and rejected at load time.
type AnySelector struct {
	Candidates []Selector
}

// Describe renders a human-readable description of the selector, used in
// SelectorResolutionError diagnostics. Mirrors
// original_source's _describe_selector.
func (s Selector) Describe() string {
	switch {
	case s.TestId != nil:
		return fmt.Sprintf("testId=%q", s.TestId.TestId)
	case s.Role != nil:
		if s.Role.Name != nil {
			return fmt.Sprintf("role=%q, name=%q", s.Role.Role, *s.Role.Name)
		}
		return fmt.Sprintf("role=%q", s.Role.Role)
	case s.Label != nil:
		return fmt.Sprintf("label=%q", s.Label.Label)
	case s.Placeholder != nil:
		return fmt.Sprintf("placeholder=%q", s.Placeholder.Placeholder)
	case s.Css != nil:
		if s.Css.Text != nil {
			return fmt.Sprintf("css=%q, text=%q", s.Css.Css, *s.Css.Text)
		}
		return fmt.Sprintf("css=%q", s.Css.Css)
	case s.Text != nil:
		return fmt.Sprintf("text=%q", s.Text.Text)
	case s.Any != nil:
		out := "any=["
		for i, c := range s.Any.Candidates {
			if i > 0 {
				out += ", "
			}
			out += c.Describe()
		}
		return out + "]"
	default:
		return "unknown(selector)"
	}
}

// IsLeaf reports whether the selector is a single (non-Any) variant.
func (s Selector) IsLeaf() bool {
	return s.Any == nil
}

// LeafStrict returns the leaf's strict flag. Panics if called on an Any
// selector — callers must check IsLeaf first.
func (s Selector) LeafStrict() bool {
	switch {
	case s.TestId != nil:
		return s.TestId.Strict
	case s.Role != nil:
		return s.Role.Strict
	case s.Label != nil:
		return s.Label.Strict
	case s.Placeholder != nil:
		return s.Placeholder.Strict
	case s.Css != nil:
		return s.Css.Strict
	case s.Text != nil:
		return s.Text.Strict
	default:
		panic("scenario: LeafStrict called on non-leaf selector")
	}
}

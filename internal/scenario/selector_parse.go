package scenario

import "fmt"

// ParseSelector converts a raw decoded-YAML map into a Selector, enforcing
// the sum-type invariants from spec.md §3: exactly one variant populated,
// Any.Candidates non-empty and leaf-only, no nested Any. path is the
// dotted location used in the returned ValidationError.
func ParseSelector(raw any, path string) (Selector, []ValidationError) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Selector{}, []ValidationError{{
			Path:    path,
			Message: "selector must be a mapping",
		}}
	}

	if anyRaw, ok := m["any"]; ok {
		return parseAnySelector(anyRaw, path)
	}

	strict := boolField(m, "strict", true)

	switch {
	case has(m, "testId"):
		return Selector{TestId: &TestIdSelector{TestId: strField(m, "testId"), Strict: strict}}, nil
	case has(m, "role"):
		sel := &RoleSelector{Role: strField(m, "role"), Strict: strict}
		if v, ok := m["name"]; ok {
			s := fmt.Sprint(v)
			sel.Name = &s
		}
		if v, ok := m["exact"]; ok {
			if b, ok := v.(bool); ok {
				sel.Exact = &b
			}
		}
		return Selector{Role: sel}, nil
	case has(m, "label"):
		return Selector{Label: &LabelSelector{Label: strField(m, "label"), Strict: strict}}, nil
	case has(m, "placeholder"):
		return Selector{Placeholder: &PlaceholderSelector{Placeholder: strField(m, "placeholder"), Strict: strict}}, nil
	case has(m, "css"):
		sel := &CssSelector{Css: strField(m, "css"), Strict: strict}
		if v, ok := m["text"]; ok {
			s := fmt.Sprint(v)
			sel.Text = &s
		}
		return Selector{Css: sel}, nil
	case has(m, "text"):
		return Selector{Text: &TextSelector{Text: strField(m, "text"), Strict: strict}}, nil
	default:
		return Selector{}, []ValidationError{{
			Path:    path,
			Message: "selector has no recognized key (testId/role/label/placeholder/css/text/any)",
		}}
	}
}

func parseAnySelector(raw any, path string) (Selector, []ValidationError) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return Selector{}, []ValidationError{{
			Path:    path + ".any",
			Message: "any requires a non-empty list of candidate selectors",
		}}
	}

	var errs []ValidationError
	candidates := make([]Selector, 0, len(list))
	for i, item := range list {
		itemPath := fmt.Sprintf("%s.any[%d]", path, i)
		sel, cerrs := ParseSelector(item, itemPath)
		errs = append(errs, cerrs...)
		if len(cerrs) == 0 {
			if !sel.IsLeaf() {
				errs = append(errs, ValidationError{
					Path:    itemPath,
					Message: "any candidates must be leaf selectors; nested any is not allowed",
				})
				continue
			}
			candidates = append(candidates, sel)
		}
	}
	if len(errs) > 0 {
		return Selector{}, errs
	}
	return Selector{Any: &AnySelector{Candidates: candidates}}, nil
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func strField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func boolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

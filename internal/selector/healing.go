package selector

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// tryHealing attempts the normative alternative-candidate set for the
// original selector's kind (healing mode "safe" only; never invoked for
// Any, and never when a candidate already resolved). The mapping is fixed
// per kind, not inferred — recorded as an Open Question decision grounded
// on original_source's selector.py:_build_healing_candidates:
//
//	TestId(x)          -> Role(role=button, name=x), Label(x)
//	Role(r, name=n)     -> TestId(n), Label(n)                (n required)
//	Label(x)            -> TestId(x), Role(role=textbox, name=x)
//	Css(c, text=t)      -> Text(t), Label(t)                  (t required)
//	Text(x)             -> Label(x)
//	Placeholder(x)      -> Label(x), TestId(x)
func (r *Resolver) tryHealing(root frameRoot, original scenario.Selector) (*rod.Element, error) {
	candidates := healingCandidates(original)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no healing candidates for %s", original.Describe())
	}

	for _, cand := range candidates {
		if el, err := resolveSingle(root, cand); err == nil {
			return el, nil
		}
	}

	return nil, fmt.Errorf("all healing candidates exhausted for %s", original.Describe())
}

func healingCandidates(sel scenario.Selector) []scenario.Selector {
	switch {
	case sel.TestId != nil:
		x := sel.TestId.TestId
		return []scenario.Selector{
			roleSel("button", &x, true),
			labelSel(x, true),
		}

	case sel.Role != nil:
		if sel.Role.Name == nil {
			return nil
		}
		n := *sel.Role.Name
		return []scenario.Selector{
			testIdSel(n, true),
			labelSel(n, true),
		}

	case sel.Label != nil:
		x := sel.Label.Label
		return []scenario.Selector{
			testIdSel(x, true),
			roleSel("textbox", &x, true),
		}

	case sel.Css != nil:
		if sel.Css.Text == nil {
			return nil
		}
		t := *sel.Css.Text
		return []scenario.Selector{
			textSel(t, true),
			labelSel(t, true),
		}

	case sel.Text != nil:
		return []scenario.Selector{
			labelSel(sel.Text.Text, true),
		}

	case sel.Placeholder != nil:
		x := sel.Placeholder.Placeholder
		return []scenario.Selector{
			labelSel(x, true),
			testIdSel(x, true),
		}

	default:
		return nil
	}
}

func testIdSel(id string, strict bool) scenario.Selector {
	return scenario.Selector{TestId: &scenario.TestIdSelector{TestId: id, Strict: strict}}
}

func roleSel(role string, name *string, strict bool) scenario.Selector {
	return scenario.Selector{Role: &scenario.RoleSelector{Role: role, Name: name, Strict: strict}}
}

func labelSel(label string, strict bool) scenario.Selector {
	return scenario.Selector{Label: &scenario.LabelSelector{Label: label, Strict: strict}}
}

func textSel(text string, strict bool) scenario.Selector {
	return scenario.Selector{Text: &scenario.TextSelector{Text: text, Strict: strict}}
}

package selector

import (
	"fmt"
	"time"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

const tenSeconds = 10 * time.Second

// queryJS builds the JS query-all expression for a leaf selector. Each
// returns an array of elements; go-rod's ElementsByJS wraps the result
// into rod.Elements. Role/Label resolution has no native CSS equivalent
// (unlike Playwright's get_by_role/get_by_label), so both are expressed
// as small JS snippets over role/aria attributes and label-for/nesting,
// mirroring what Playwright's own accessibility-tree matching approximates
// via plain DOM relationships.
func queryJS(sel scenario.Selector) (string, error) {
	switch {
	case sel.TestId != nil:
		return fmt.Sprintf(`() => Array.from(document.querySelectorAll('[data-testid=%s]'))`, jsString(sel.TestId.TestId)), nil

	case sel.Role != nil:
		role := jsString(sel.Role.Role)
		if sel.Role.Name == nil {
			return fmt.Sprintf(`() => Array.from(document.querySelectorAll('[role=%s]'))`, role), nil
		}
		name := jsString(*sel.Role.Name)
		exact := sel.Role.Exact != nil && *sel.Role.Exact
		cmp := "t.includes(n)"
		if exact {
			cmp = "t === n"
		}
		return fmt.Sprintf(`() => {
			const n = %s;
			return Array.from(document.querySelectorAll('[role=%s]')).filter(el => {
				const t = (el.getAttribute('aria-label') || el.textContent || '').trim();
				return %s;
			});
		}`, name, role, cmp), nil

	case sel.Label != nil:
		label := jsString(sel.Label.Label)
		return fmt.Sprintf(`() => {
			const target = %s;
			const controls = [];
			for (const lbl of Array.from(document.querySelectorAll('label'))) {
				if (!(lbl.textContent || '').trim().includes(target)) continue;
				const forId = lbl.getAttribute('for');
				if (forId) {
					const el = document.getElementById(forId);
					if (el) controls.push(el);
					continue;
				}
				const nested = lbl.querySelector('input, textarea, select');
				if (nested) controls.push(nested);
			}
			return controls;
		}`, label), nil

	case sel.Placeholder != nil:
		return fmt.Sprintf(`() => Array.from(document.querySelectorAll('[placeholder=%s]'))`, jsString(sel.Placeholder.Placeholder)), nil

	case sel.Css != nil:
		css := jsString(sel.Css.Css)
		if sel.Css.Text == nil {
			return fmt.Sprintf(`() => Array.from(document.querySelectorAll(%s))`, css), nil
		}
		text := jsString(*sel.Css.Text)
		return fmt.Sprintf(`() => {
			const t = %s;
			return Array.from(document.querySelectorAll(%s)).filter(el => (el.textContent || '').includes(t));
		}`, text, css), nil

	case sel.Text != nil:
		text := jsString(sel.Text.Text)
		return fmt.Sprintf(`() => {
			const t = %s;
			const all = Array.from(document.querySelectorAll('body *'));
			return all.filter(el => el.children.length === 0 && (el.textContent || '').trim().includes(t));
		}`, text), nil

	default:
		return "", fmt.Errorf("unrecognized selector kind: %s", sel.Describe())
	}
}

// jsString renders a Go string as a JS double-quoted string literal,
// escaping embedded quotes and backslashes.
func jsString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"', '\\':
			out += `\` + string(r)
		default:
			out += string(r)
		}
	}
	return out + `"`
}

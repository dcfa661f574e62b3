package steps

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func parseNamedSelector(params map[string]any, key string) (scenario.Selector, error) {
	raw, ok := params[key]
	if !ok {
		return scenario.Selector{}, fmt.Errorf("missing required %q selector parameter", key)
	}
	sel, errs := scenario.ParseSelector(raw, key)
	if len(errs) > 0 {
		return scenario.Selector{}, fmt.Errorf("invalid %q selector: %s", key, errs[0].Message)
	}
	return sel, nil
}

// waitVisible polls sc.Resolver for sel until it resolves and is visible,
// or the timeout elapses.
func waitVisible(sc *StepContext, page *rod.Page, sel scenario.Selector, frame string, timeout time.Duration) (*rod.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		el, err := sc.Resolver.Resolve(page, sel, frame)
		if err == nil {
			if visible, verr := el.Visible(); verr == nil && visible {
				return el, nil
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s never became visible within %s", sel.Describe(), timeout)
		}
		time.Sleep(scrollPollInterval)
	}
}

// waitElement polls a raw CSS selector against the page until an element
// is found, or the timeout elapses. Used where a composite handler works
// against a fixed library-internal CSS shape (e.g. Wijmo's own classes)
// rather than a user-supplied Selector.
func waitElement(page *rod.Page, css string, timeout time.Duration) (*rod.Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		el, err := page.Element(css)
		if err == nil {
			return el, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s never appeared within %s", css, timeout)
		}
		time.Sleep(scrollPollInterval)
	}
}

// uniqueExactTextChild finds the single descendant of root whose trimmed
// text content exactly equals text, raising if zero or more than one match.
func uniqueExactTextChild(root *rod.Element, text string) (*rod.Element, error) {
	matches, err := root.ElementsByJS(rod.Eval(`(t) => {
		const all = Array.from(this.querySelectorAll('*'));
		return all.filter(el => el.children.length === 0 && (el.textContent || '').trim() === t);
	}`, text))
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no option with exact text %q", text)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous: %d options with exact text %q", len(matches), text)
	}
}

// textCssSel builds an Any-free Css selector filtered by contained text,
// for composite handlers that target a fixed CSS shape rather than a
// user-declared Selector.
func textCssSel(css, text string) scenario.Selector {
	t := text
	return scenario.Selector{Css: &scenario.CssSelector{Css: css, Text: &t, Strict: false}}
}

func enterKey() []input.Key {
	return []input.Key{input.Enter}
}

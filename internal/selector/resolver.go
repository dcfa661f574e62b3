// Package selector implements the selector resolver described in
// spec.md §4.3: translating a Selector spec into a live rod.Element,
// the Any fallback algorithm, and bounded safe-mode healing. Grounded on
// original_source's tool/src/core/selector.py, adapted from Playwright's
// lazy Locator abstraction (repeated count()/is_visible() against a
// re-queried live handle) onto go-rod's element-list API.
package selector

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// ResolutionError is raised when single-selector resolution (outside Any)
// ultimately fails — either the immediate cause, or after a failed safe-mode
// healing attempt.
type ResolutionError struct {
	Selector scenario.Selector
	Cause    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve selector %s: %v", e.Selector.Describe(), e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// CandidateFailure records why one Any candidate was rejected, in the
// order tried — this diagnostic is the contract per spec.md §4.3.
type CandidateFailure struct {
	Index       int
	Description string
	Reason      string
}

// AnyExhaustedError is raised when every Any candidate was rejected.
type AnyExhaustedError struct {
	Failures []CandidateFailure
}

func (e *AnyExhaustedError) Error() string {
	out := fmt.Sprintf("any fallback: all %d candidates failed to resolve:\n", len(e.Failures))
	for _, f := range e.Failures {
		out += fmt.Sprintf("  [%d] %s: %s\n", f.Index, f.Description, f.Reason)
	}
	return out
}

// Resolver translates a Selector into a live element, per spec.md §4.3.
// Not safe for concurrent use across scenarios; each scenario run owns its
// own Resolver, matching the Expander's per-run ownership model.
type Resolver struct {
	healing scenario.HealingMode
}

// New constructs a Resolver. healing must be "off" or "safe"; any other
// value is treated as "off" defensively (loader validation already
// rejects bad values before a Resolver is ever built).
func New(healing scenario.HealingMode) *Resolver {
	return &Resolver{healing: healing}
}

// Resolve resolves sel against page (optionally scoped to a frame),
// returning a live element. For an Any selector it runs the fallback
// algorithm; for a leaf selector it resolves directly, attempting safe-mode
// healing on failure.
func (r *Resolver) Resolve(page *rod.Page, sel scenario.Selector, frame string) (*rod.Element, error) {
	root, err := enterFrame(page, frame)
	if err != nil {
		return nil, err
	}

	if sel.Any != nil {
		return r.resolveAny(root, sel.Any.Candidates)
	}

	el, err := resolveSingle(root, sel)
	if err == nil {
		return el, nil
	}

	if r.healing == scenario.HealingSafe {
		if healed, herr := r.tryHealing(root, sel); herr == nil {
			return healed, nil
		}
	}

	return nil, &ResolutionError{Selector: sel, Cause: err}
}

// frameRoot abstracts over "the top-level page" vs "a named frame",
// since both expose the same Elements-by-query surface used below.
type frameRoot struct {
	page  *rod.Page
	frame *rod.Page // rod represents an iframe's document as its own *rod.Page
}

func enterFrame(page *rod.Page, frame string) (frameRoot, error) {
	if frame == "" {
		return frameRoot{page: page}, nil
	}
	framed, err := page.ElementR("iframe", frame)
	if err != nil {
		return frameRoot{}, fmt.Errorf("entering frame %q: %w", frame, err)
	}
	inner, err := framed.Frame()
	if err != nil {
		return frameRoot{}, fmt.Errorf("entering frame %q: %w", frame, err)
	}
	// Bounded wait for the frame body to attach; a timeout here is
	// logged and non-fatal, mirroring selector.py's frame_locator wait.
	if _, werr := inner.Timeout(tenSeconds).Element("body"); werr != nil {
		logFrameWaitTimeout(frame, werr)
	}
	return frameRoot{page: page, frame: inner}, nil
}

func (f frameRoot) query(js string, args ...interface{}) (rod.Elements, error) {
	target := f.page
	if f.frame != nil {
		target = f.frame
	}
	return target.ElementsByJS(rod.Eval(js, args...))
}

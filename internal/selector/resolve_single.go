package selector

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func logFrameWaitTimeout(frame string, err error) {
	slog.Warn("frame body wait timed out, continuing anyway", "frame", frame, "error", err)
}

// resolveSingle resolves a leaf selector (not Any) to exactly one visible
// element. Zero matches, more than one match under strict=true, and a
// single present-but-hidden match are all reported as distinct causes,
// matching selector.py's exception messages.
func resolveSingle(root frameRoot, sel scenario.Selector) (*rod.Element, error) {
	js, err := queryJS(sel)
	if err != nil {
		return nil, err
	}

	els, err := root.query(js)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", sel.Describe(), err)
	}

	strict := sel.LeafStrict()
	switch {
	case len(els) == 0:
		return nil, fmt.Errorf("%s: no match", sel.Describe())
	case len(els) > 1 && strict:
		return nil, fmt.Errorf("%s: strict violation, %d matches", sel.Describe(), len(els))
	}

	el := els[0]
	visible, err := el.Visible()
	if err != nil {
		return nil, fmt.Errorf("%s: checking visibility: %w", sel.Describe(), err)
	}
	if !visible {
		return nil, fmt.Errorf("%s: present but hidden", sel.Describe())
	}

	return el, nil
}

// resolveAny implements the Any fallback algorithm (spec.md §4.3): try
// candidates in order, skipping on no-match/ambiguous/hidden, returning
// the first fully-resolved candidate without trying the rest.
func (r *Resolver) resolveAny(root frameRoot, candidates []scenario.Selector) (*rod.Element, error) {
	var failures []CandidateFailure

	for i, cand := range candidates {
		js, err := queryJS(cand)
		if err != nil {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: err.Error()})
			continue
		}

		els, err := root.query(js)
		if err != nil {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: "query error: " + err.Error()})
			continue
		}

		if len(els) == 0 {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: "no match"})
			continue
		}
		if len(els) > 1 && cand.LeafStrict() {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: fmt.Sprintf("ambiguous (%d matches)", len(els))})
			continue
		}

		el := els[0]
		visible, err := el.Visible()
		if err != nil {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: "checking visibility: " + err.Error()})
			continue
		}
		if !visible {
			failures = append(failures, CandidateFailure{Index: i, Description: cand.Describe(), Reason: "present but hidden"})
			continue
		}

		return el, nil
	}

	return nil, &AnyExhaustedError{Failures: failures}
}

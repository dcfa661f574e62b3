package selector

import (
	"testing"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func TestHealingCandidates_TestId(t *testing.T) {
	sel := testIdSel("submit", true)
	cands := healingCandidates(sel)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Role == nil || cands[0].Role.Role != "button" || *cands[0].Role.Name != "submit" {
		t.Errorf("first candidate = %s, want role=button name=submit", cands[0].Describe())
	}
	if cands[1].Label == nil || cands[1].Label.Label != "submit" {
		t.Errorf("second candidate = %s, want label=submit", cands[1].Describe())
	}
}

func TestHealingCandidates_RoleWithoutName(t *testing.T) {
	sel := roleSel("button", nil, true)
	if got := healingCandidates(sel); got != nil {
		t.Errorf("expected no healing candidates when role has no name, got %v", got)
	}
}

func TestHealingCandidates_CssWithoutText(t *testing.T) {
	sel := scenario.Selector{Css: &scenario.CssSelector{Css: ".btn", Strict: true}}
	if got := healingCandidates(sel); got != nil {
		t.Errorf("expected no healing candidates when css has no text filter, got %v", got)
	}
}

func TestHealingCandidates_Placeholder(t *testing.T) {
	sel := scenario.Selector{Placeholder: &scenario.PlaceholderSelector{Placeholder: "email", Strict: true}}
	cands := healingCandidates(sel)
	if len(cands) != 2 || cands[0].Label == nil || cands[1].TestId == nil {
		t.Fatalf("unexpected placeholder healing candidates: %v", cands)
	}
}

func TestAnyExhaustedError_Message(t *testing.T) {
	err := &AnyExhaustedError{Failures: []CandidateFailure{
		{Index: 0, Description: "testId=\"a\"", Reason: "no match"},
		{Index: 1, Description: "label=\"b\"", Reason: "present but hidden"},
	}}
	msg := err.Error()
	if !contains(msg, "no match") || !contains(msg, "present but hidden") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

package author

import (
	"testing"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func TestDrafter_DefaultStub_ProducesValidScenario(t *testing.T) {
	d := NewDrafter(nil)
	s, err := d.Draft("a user logs in and sees a dashboard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Title == "" || len(s.Steps) == 0 {
		t.Errorf("expected a populated scenario, got %+v", s)
	}
}

func secretFillScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Title:   "login",
		BaseURL: "http://localhost",
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"by": map[string]any{"label": "Password"}, "value": "x", "secret": true}},
		},
	}
}

func TestRefiner_DefaultStub_PreservesSecretFlag(t *testing.T) {
	r := NewRefiner(nil)
	refined, err := r.Refine(secretFillScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refined.Title != "login" {
		t.Errorf("expected echoed scenario, got title %q", refined.Title)
	}
}

type droppingSecretGenerator struct{}

func (droppingSecretGenerator) Generate(string, string) (string, error) {
	return `title: login
base_url: http://localhost
steps:
  - fill:
      by:
        label: Password
      value: x
`, nil
}

func TestRefiner_DroppedSecretFlag_RaisesSecretLost(t *testing.T) {
	r := NewRefiner(droppingSecretGenerator{})
	_, err := r.Refine(secretFillScenario())
	if err == nil {
		t.Fatalf("expected SecretLost error")
	}
	if _, ok := err.(*SecretLost); !ok {
		t.Fatalf("expected *SecretLost, got %T: %v", err, err)
	}
}

func TestExplainer_DefaultStub_ReturnsNonEmptyText(t *testing.T) {
	e := NewExplainer(nil)
	text, err := e.Explain(secretFillScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" {
		t.Errorf("expected non-empty explanation")
	}
}

type emptyGenerator struct{}

func (emptyGenerator) Generate(string, string) (string, error) { return "", nil }

func TestExplainer_EmptyResponse_IsAnError(t *testing.T) {
	e := NewExplainer(emptyGenerator{})
	if _, err := e.Explain(secretFillScenario()); err == nil {
		t.Fatalf("expected error for empty generator response")
	}
}

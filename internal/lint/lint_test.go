package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func TestLint_TextOnlySelector(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"click": map[string]any{"text": "Submit"}},
		},
	}
	issues := Lint(s)
	assert.True(t, hasRule(issues, "text-only-selector"), "expected text-only-selector issue, got %+v", issues)
}

func TestLint_MissingAnyFallback(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"click": map[string]any{"testId": "submit"}},
		},
	}
	issues := Lint(s)
	assert.True(t, hasRule(issues, "missing-any-fallback"), "expected missing-any-fallback issue, got %+v", issues)
}

func TestLint_NoIssueWhenAnyConfigured(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"click": map[string]any{"any": []any{
				map[string]any{"testId": "submit"},
				map[string]any{"label": "Submit"},
			}}},
		},
	}
	issues := Lint(s)
	assert.False(t, hasRule(issues, "missing-any-fallback"), "did not expect missing-any-fallback issue, got %+v", issues)
}

func TestLint_MissingSecret(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"by": map[string]any{"label": "Password"}, "value": "x"}},
		},
	}
	issues := Lint(s)
	assert.True(t, hasRule(issues, "missing-secret"), "expected missing-secret issue, got %+v", issues)
}

func TestLint_SecretFlagSuppressesIssue(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"by": map[string]any{"label": "Password"}, "value": "x", "secret": true}},
		},
	}
	issues := Lint(s)
	assert.False(t, hasRule(issues, "missing-secret"), "did not expect missing-secret issue, got %+v", issues)
}

func TestLint_NestedSectionLineNumbering(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"goto": "http://x"},
			{
				"section": "login",
				"steps": []any{
					map[string]any{"click": map[string]any{"testId": "submit"}},
				},
			},
		},
	}
	issues := Lint(s)
	for _, issue := range issues {
		assert.Equal(t, 2, issue.Line, "expected nested step to be line 2")
	}
}

func hasRule(issues []Issue, rule string) bool {
	for _, i := range issues {
		if i.Rule == rule {
			return true
		}
	}
	return false
}

package scenario

import (
	"strings"
	"testing"
)

func TestLoad_MinimalScenario(t *testing.T) {
	yamlDoc := `
title: minimal
base_url: http://example.com
steps:
  - goto: http://example.com
`
	s, errs := Load([]byte(yamlDoc))
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if s.Title != "minimal" {
		t.Errorf("Title = %q, want %q", s.Title, "minimal")
	}
	if s.Healing != HealingOff {
		t.Errorf("Healing default = %q, want %q", s.Healing, HealingOff)
	}
	if s.Artifacts.Screenshots.Mode != ScreenshotBeforeEachStep {
		t.Errorf("Screenshots.Mode default = %q, want %q", s.Artifacts.Screenshots.Mode, ScreenshotBeforeEachStep)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	yamlDoc := `
steps: []
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors (title, base_url), got %d: %v", len(errs), errs)
	}
}

func TestLoad_IllegalVariableReference(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
vars:
  x: "${foo.bar}"
steps:
  - goto: http://h
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, "illegal variable reference") {
		t.Errorf("unexpected error message: %s", errs[0].Message)
	}
}

func TestLoad_StepWithoutKindKey(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
steps:
  - name: bad
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d", len(errs))
	}
}

func TestLoad_StepWithTwoKindKeys(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
steps:
  - click: {testId: a}
    fill: {testId: b, value: x}
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d", len(errs))
	}
}

func TestLoad_SectionStepsExpanded(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
steps:
  - section: grouped
    steps:
      - click: {testId: a}
      - click: {testId: b}
`
	s, errs := Load([]byte(yamlDoc))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(s.Steps) != 1 || !s.Steps[0].IsSection() {
		t.Fatalf("expected a single section step")
	}
	inner := s.Steps[0].SectionSteps()
	if len(inner) != 2 {
		t.Fatalf("expected 2 inner steps, got %d", len(inner))
	}
}

func TestLoad_InvalidArtifactsQuality(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
artifacts:
  screenshots:
    quality: 150
steps:
  - goto: http://h
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d: %v", len(errs), errs)
	}
}

func TestLoad_EmptyAnySelectorCaughtAtLoadTime(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
steps:
  - click: {any: []}
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, "any requires a non-empty list") {
		t.Errorf("unexpected error message: %s", errs[0].Message)
	}
}

func TestLoad_NestedAnySelectorCaughtAtLoadTime(t *testing.T) {
	yamlDoc := `
title: t
base_url: http://h
steps:
  - click:
      any:
        - any: [{testId: a}]
`
	_, errs := Load([]byte(yamlDoc))
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d: %v", len(errs), errs)
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	yamlDoc := `
title: round trip
base_url: http://example.com
vars:
  endpoint: users
healing: safe
steps:
  - goto: http://example.com
  - click: {testId: submit}
`
	s, errs := Load([]byte(yamlDoc))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	dumped, err := Dump(s)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	s2, errs2 := Load(dumped)
	if len(errs2) != 0 {
		t.Fatalf("reload of dumped scenario failed: %v", errs2)
	}

	if s2.Title != s.Title || s2.BaseURL != s.BaseURL || s2.Healing != s.Healing {
		t.Errorf("round-trip mismatch: %+v vs %+v", s, s2)
	}
	if len(s2.Steps) != len(s.Steps) {
		t.Errorf("round-trip step count mismatch: %d vs %d", len(s2.Steps), len(s.Steps))
	}
	if s2.Vars["endpoint"] != "users" {
		t.Errorf("round-trip vars mismatch: %v", s2.Vars)
	}
}

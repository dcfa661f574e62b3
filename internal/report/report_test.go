package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kawanishi0117/flowrunner/internal/runner"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func sampleResult() *runner.ScenarioResult {
	return &runner.ScenarioResult{
		Title:      "checkout flow",
		Status:     runner.StatusFailed,
		StartedAt:  time.Now().Add(-2 * time.Second),
		FinishedAt: time.Now(),
		DurationMs: 2000,
		Steps: []runner.StepResult{
			{Name: "open cart", Kind: "goto", Index: 0, Status: runner.StatusPassed, DurationMs: 500, ScreenshotPath: "screenshots/0000_before-open-cart.jpg"},
			{Name: "submit", Kind: "click", Index: 1, Status: runner.StatusFailed, DurationMs: 1500, Error: "no match"},
		},
	}
}

func sampleScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Title: "checkout flow",
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"by": map[string]any{"label": "Password"}, "value": "hunter2", "secret": true}},
		},
	}
}

// secretLeakResult mimics a step whose error text echoed the fill value a
// secret scan must catch before it reaches disk.
func secretLeakResult() *runner.ScenarioResult {
	r := sampleResult()
	r.Steps = append(r.Steps, runner.StepResult{
		Name:   "fill",
		Kind:   "fill",
		Index:  2,
		Status: runner.StatusFailed,
		Error:  `value "hunter2" did not match expected pattern`,
	})
	return r
}

func TestWriteJSON_SummaryCounts(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(dir, sampleScenario(), sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("reading report.json: %v", err)
	}
	var parsed jsonReport
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Summary.Total != 2 || parsed.Summary.Passed != 1 || parsed.Summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", parsed.Summary)
	}
}

func TestWriteJSON_MasksSecretValue(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(dir, sampleScenario(), secretLeakResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("reading report.json: %v", err)
	}
	if contains(string(data), "hunter2") {
		t.Errorf("report.json leaked the secret value")
	}
}

func TestWriteJUnit_FailureCount(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJUnit(dir, sampleScenario(), sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "junit.xml"))
	if err != nil {
		t.Fatalf("reading junit.xml: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty junit.xml")
	}
	if !contains(string(data), `failures="1"`) {
		t.Errorf("expected failures=\"1\" for one failed step, got: %s", data)
	}
}

func TestWriteHTML_ContainsTitle(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(dir, sampleScenario(), sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatalf("reading report.html: %v", err)
	}
	if !contains(string(data), "checkout flow") {
		t.Errorf("expected html to contain the scenario title")
	}
}

func TestWriteHTML_ContainsScreenshotLink(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(dir, sampleScenario(), sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatalf("reading report.html: %v", err)
	}
	if !contains(string(data), "screenshots/0000_before-open-cart.jpg") {
		t.Errorf("expected html to link the step screenshot")
	}
}

func TestWriteHTML_MasksSecretValue(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(dir, sampleScenario(), secretLeakResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatalf("reading report.html: %v", err)
	}
	if contains(string(data), "hunter2") {
		t.Errorf("report.html leaked the secret value")
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func TestNewManager_CreatesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()

	m, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, sub := range []string{"screenshots", "trace", "video", "logs"} {
		if _, err := os.Stat(filepath.Join(m.RunDir(), sub)); err != nil {
			t.Errorf("expected %s to exist: %v", sub, err)
		}
	}

	if !strings.HasPrefix(filepath.Base(m.RunDir()), "run-") {
		t.Errorf("run dir %q does not start with run-", m.RunDir())
	}
}

func TestSanitizeStepName(t *testing.T) {
	cases := map[string]string{
		"Click Submit!":  "Click-Submit",
		"a__b":           "a__b",
		"---leading":     "leading",
		"trailing---":    "trailing",
		"multi   spaces": "multi-spaces",
	}
	for in, want := range cases {
		if got := sanitizeStepName(in); got != want {
			t.Errorf("sanitizeStepName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScreenshotPath_Naming(t *testing.T) {
	m, _ := NewManager(t.TempDir())

	before := m.ScreenshotPath(ScreenshotBefore, 1, "click submit", "jpg")
	if filepath.Base(before) != "0001_before-click-submit.jpg" {
		t.Errorf("got %q", filepath.Base(before))
	}

	after := m.ScreenshotPath(ScreenshotAfter, 2, "click submit", "png")
	if filepath.Base(after) != "0002_after-click-submit.png" {
		t.Errorf("got %q", filepath.Base(after))
	}

	errShot := m.ScreenshotPath(ScreenshotError, 3, "click submit", "")
	if filepath.Base(errShot) != "step003_click-submit_error.png" {
		t.Errorf("got %q", filepath.Base(errShot))
	}
}

func TestSaveScreenshot_ReturnsRelativeForwardSlashPath(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	rel, err := m.SaveScreenshot(ScreenshotBefore, 1, "go", "jpg", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(rel, "\\") || !strings.HasPrefix(rel, "screenshots/") {
		t.Errorf("unexpected relative path: %q", rel)
	}
}

func TestCollectSecretValues_ScansHooksAndSections(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"section": "login", "steps": []any{
				map[string]any{"fill": map[string]any{"value": "hunter2"}, "secret": true},
			}},
		},
		Hooks: scenario.Hooks{
			BeforeEachStep: []scenario.StepEntry{
				{"fill": map[string]any{"value": "hook-secret"}, "secret": true},
			},
		},
	}
	got := CollectSecretValues(s)
	if len(got) != 2 {
		t.Fatalf("expected 2 secrets, got %v", got)
	}
}

func TestMaskSecrets_ReplacesLiteralValue(t *testing.T) {
	s := &scenario.Scenario{
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"value": "hunter2"}, "secret": true},
		},
	}
	out := MaskSecrets(s, "password is hunter2 today")
	if strings.Contains(out, "hunter2") {
		t.Errorf("secret leaked: %q", out)
	}
}

func TestCleanupOnSuccess_RemovesOnFailureOnly(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	cfg := scenario.ArtifactsConfig{
		Trace: scenario.TraceConfig{Mode: scenario.ModeOnFailure},
		Video: scenario.VideoConfig{Mode: scenario.ModeAlways},
	}
	if err := m.CleanupOnSuccess(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.RunDir(), "trace")); !os.IsNotExist(err) {
		t.Errorf("expected trace/ removed")
	}
	if _, err := os.Stat(filepath.Join(m.RunDir(), "video")); err != nil {
		t.Errorf("expected video/ to survive always mode: %v", err)
	}
}

func TestSaveEnvInfo_MasksSecretsInVars(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	s := &scenario.Scenario{
		Title:   "t",
		BaseURL: "http://h",
		Vars:    map[string]string{"password": "hunter2"},
		Steps: []scenario.StepEntry{
			{"fill": map[string]any{"value": "hunter2"}, "secret": true},
		},
	}
	if err := m.SaveEnvInfo(s, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(m.RunDir(), "env.json"))
	if err != nil {
		t.Fatalf("reading env.json: %v", err)
	}
	if strings.Contains(string(data), "hunter2") {
		t.Errorf("env.json leaked secret: %s", data)
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindScenarios_SortedMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("title: x"), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	matches, err := findScenarios(filepath.Join(dir, "*.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 || filepath.Base(matches[0]) != "a.yaml" {
		t.Errorf("expected sorted [a.yaml b.yaml], got %v", matches)
	}
}

func TestScenarioRunName_StripsExtension(t *testing.T) {
	if got := scenarioRunName("scenarios/login.yaml"); got != "login" {
		t.Errorf("got %q", got)
	}
}

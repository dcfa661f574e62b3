package steps

import "testing"

func TestSelectorFrom_InlineShape(t *testing.T) {
	params := map[string]any{"testId": "submit", "value": "x"}
	sel, err := selectorFrom(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.TestId == nil || sel.TestId.TestId != "submit" {
		t.Errorf("got %s", sel.Describe())
	}
}

func TestSelectorFrom_ByShape(t *testing.T) {
	params := map[string]any{"by": map[string]any{"label": "Email"}, "value": "x"}
	sel, err := selectorFrom(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Label == nil || sel.Label.Label != "Email" {
		t.Errorf("got %s", sel.Describe())
	}
}

func TestRequireStrParam_Missing(t *testing.T) {
	_, err := requireStrParam(map[string]any{}, "value")
	if err == nil {
		t.Fatalf("expected error for missing param")
	}
}

func TestIntParam_Default(t *testing.T) {
	if got := intParam(map[string]any{}, "status", 200); got != 200 {
		t.Errorf("got %d", got)
	}
	if got := intParam(map[string]any{"status": 404}, "status", 200); got != 404 {
		t.Errorf("got %d", got)
	}
}

package scenario

import "testing"

func TestExpand_Substitutes(t *testing.T) {
	e := NewExpander(map[string]string{"BASE_URL": "http://h"}, map[string]string{"endpoint": "users"})
	got, err := e.Expand("${env.BASE_URL}/api/${vars.endpoint}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "http://h/api/users" {
		t.Errorf("got %q, want %q", got, "http://h/api/users")
	}
}

func TestExpand_UnresolvedKnownNamespace(t *testing.T) {
	e := NewExpander(nil, nil)
	_, err := e.Expand("${env.MISSING}")
	uv, ok := err.(*UnresolvedVariable)
	if !ok {
		t.Fatalf("expected *UnresolvedVariable, got %T (%v)", err, err)
	}
	if uv.Namespace != "env" || uv.Name != "MISSING" {
		t.Errorf("got %+v", uv)
	}
}

func TestExpand_UnrecognizedNamespaceIsUnknown(t *testing.T) {
	e := NewExpander(nil, nil)
	_, err := e.Expand("${foo.bar}")
	uv, ok := err.(*UnresolvedVariable)
	if !ok {
		t.Fatalf("expected *UnresolvedVariable, got %T", err)
	}
	if uv.Namespace != "unknown" {
		t.Errorf("namespace = %q, want unknown", uv.Namespace)
	}
}

func TestExpand_Totality(t *testing.T) {
	e := NewExpander(map[string]string{"X": "y"}, nil)
	got, err := e.Expand("a${env.X}b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsCurly(got) {
		t.Errorf("result still contains a reference: %q", got)
	}
}

func containsCurly(s string) bool {
	return unresolvedPattern.MatchString(s)
}

func TestExpandValue_RecursesMapsAndSlices(t *testing.T) {
	e := NewExpander(map[string]string{"X": "hi"}, nil)
	in := map[string]any{
		"a": "${env.X}",
		"b": []any{"${env.X}", 42, true},
		"c": 7,
	}
	out, err := e.ExpandValue(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.(map[string]any)
	if m["a"] != "hi" {
		t.Errorf("a = %v", m["a"])
	}
	list := m["b"].([]any)
	if list[0] != "hi" || list[1] != 42 || list[2] != true {
		t.Errorf("b = %v", list)
	}
	if m["c"] != 7 {
		t.Errorf("c = %v", m["c"])
	}
}

func TestSetVar(t *testing.T) {
	e := NewExpander(nil, nil)
	e.SetVar("captured", "value")
	got, err := e.Expand("${vars.captured}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value" {
		t.Errorf("got %q", got)
	}
}

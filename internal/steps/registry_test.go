package steps

import (
	"context"
	"testing"

	"github.com/go-rod/rod"
)

type stubHandler struct{ name string }

func (h stubHandler) Execute(context.Context, *rod.Page, map[string]any, *StepContext) error {
	return nil
}

func (h stubHandler) DescribeSchema() Schema {
	return Schema{Name: h.name, Category: "test"}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("click", stubHandler{name: "click"})

	h, err := r.Get("click")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.DescribeSchema().Name != "click" {
		t.Errorf("got %q", h.DescribeSchema().Name)
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewRegistry()
	r.Register("click", stubHandler{})

	_, err := r.Get("nope")
	uk, ok := err.(*UnknownStepKind)
	if !ok {
		t.Fatalf("expected *UnknownStepKind, got %T", err)
	}
	if uk.Kind != "nope" {
		t.Errorf("got %q", uk.Kind)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("click", stubHandler{name: "first"})
	r.Register("click", stubHandler{name: "second"})

	h, _ := r.Get("click")
	if h.DescribeSchema().Name != "second" {
		t.Errorf("expected overwrite to take effect, got %q", h.DescribeSchema().Name)
	}
}

func TestRegistry_Names_SortedAndHas(t *testing.T) {
	r := NewRegistry()
	r.Register("fill", stubHandler{})
	r.Register("click", stubHandler{})

	if !r.Has("click") || r.Has("missing") {
		t.Errorf("Has() behaved unexpectedly")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "click" || names[1] != "fill" {
		t.Errorf("expected sorted [click fill], got %v", names)
	}
}

func TestNewDefaultRegistry_RegistersAllFamilies(t *testing.T) {
	r := NewDefaultRegistry()
	expect := []string{
		"back", "reload",
		"click", "dblclick", "fill", "press", "check", "uncheck", "select_option", "scroll", "scroll_into_view",
		"wait_for", "wait_for_visible", "wait_for_hidden", "wait_for_network_idle",
		"expect_visible", "expect_hidden", "expect_text", "expect_url",
		"store_text", "store_attr",
		"screenshot", "log", "dump_dom",
		"use_storage_state", "save_storage_state",
		"api_mock", "route_stub",
		"select_overlay_option", "select_wijmo_combo", "click_wijmo_grid_cell", "set_date_picker", "upload_file", "wait_for_toast", "assert_no_console_error",
	}
	for _, name := range expect {
		if !r.Has(name) {
			t.Errorf("expected %q to be registered", name)
		}
	}
	if got := len(r.Names()); got != len(expect) {
		t.Errorf("registered %d steps, want %d", got, len(expect))
	}
}

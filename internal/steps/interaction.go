package steps

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

func resolveForAction(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) (*rod.Element, error) {
	sel, err := selectorFrom(params)
	if err != nil {
		return nil, err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return nil, err
	}
	scrollIntoViewBestEffort(el)
	return el, nil
}

type clickHandler struct{ clicks int }

func (h clickHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, h.clicks)
}

func (h clickHandler) DescribeSchema() Schema {
	name := "click"
	if h.clicks == 2 {
		name = "dblclick"
	}
	return Schema{Name: name, Category: "interaction", Description: "click a resolved element"}
}

type fillHandler struct{}

func (fillHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	value, err := requireStrParam(params, "value")
	if err != nil {
		return err
	}
	value, err = expand(sc, value)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func (fillHandler) DescribeSchema() Schema {
	return Schema{Name: "fill", Category: "interaction", Description: "clear and type a value into a resolved element"}
}

type pressHandler struct{}

func (pressHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	key, err := requireStrParam(params, "key")
	if err != nil {
		return err
	}
	k, ok := keyByName[key]
	if !ok {
		return fmt.Errorf("unrecognized key %q", key)
	}
	return el.Type(k)
}

func (pressHandler) DescribeSchema() Schema {
	return Schema{Name: "press", Category: "interaction", Description: "press a keyboard key on a resolved element"}
}

var keyByName = map[string]input.Key{
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"Space":      input.Space,
}

type checkHandler struct{ want bool }

func (h checkHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	checked, err := el.Property("checked")
	if err != nil {
		return err
	}
	if checked.Bool() != h.want {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	return nil
}

func (h checkHandler) DescribeSchema() Schema {
	name := "check"
	if !h.want {
		name = "uncheck"
	}
	return Schema{Name: name, Category: "interaction", Description: "set a checkbox/radio's checked state"}
}

type selectOptionHandler struct{}

func (selectOptionHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	el, err := resolveForAction(ctx, page, params, sc)
	if err != nil {
		return err
	}
	value, err := requireStrParam(params, "value")
	if err != nil {
		return err
	}
	return el.Select([]string{value}, true, rod.SelectorTypeText)
}

func (selectOptionHandler) DescribeSchema() Schema {
	return Schema{Name: "select_option", Category: "interaction", Description: "select an <option> by visible text"}
}

type scrollHandler struct{}

func (scrollHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	dx := intParam(params, "dx", 0)
	dy := intParam(params, "dy", 0)
	return page.Mouse.Scroll(float64(dx), float64(dy), 1)
}

func (scrollHandler) DescribeSchema() Schema {
	return Schema{Name: "scroll", Category: "interaction", Description: "scroll the page by (dx, dy)"}
}

type scrollIntoViewHandler struct{}

func (scrollIntoViewHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}

func (scrollIntoViewHandler) DescribeSchema() Schema {
	return Schema{Name: "scroll_into_view", Category: "interaction", Description: "scroll a resolved element into view"}
}

package steps

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

type storeTextHandler struct{}

func (storeTextHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	varName, err := requireStrParam(params, "var_name")
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}
	text, err := el.Text()
	if err != nil {
		return err
	}
	sc.Expander.SetVar(varName, text)
	return nil
}

func (storeTextHandler) DescribeSchema() Schema {
	return Schema{Name: "store_text", Category: "capture", Description: "capture a resolved element's text into a variable"}
}

type storeAttrHandler struct{}

func (storeAttrHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	attr, err := requireStrParam(params, "attr")
	if err != nil {
		return err
	}
	varName, err := requireStrParam(params, "var_name")
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}
	value, err := el.Attribute(attr)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("store_attr: %s has no attribute %q", sel.Describe(), attr)
	}
	sc.Expander.SetVar(varName, *value)
	return nil
}

func (storeAttrHandler) DescribeSchema() Schema {
	return Schema{Name: "store_attr", Category: "capture", Description: "capture a resolved element's attribute into a variable"}
}

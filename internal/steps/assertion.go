package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
)

type expectVisibleHandler struct{ want bool }

func (h expectVisibleHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if h.want {
		if err != nil {
			return fmt.Errorf("expect_visible: %w", err)
		}
		visible, verr := el.Visible()
		if verr != nil {
			return verr
		}
		if !visible {
			return fmt.Errorf("expect_visible: %s is not visible", sel.Describe())
		}
		return nil
	}
	if err == nil {
		visible, verr := el.Visible()
		if verr == nil && visible {
			return fmt.Errorf("expect_hidden: %s is visible", sel.Describe())
		}
	}
	return nil
}

func (h expectVisibleHandler) DescribeSchema() Schema {
	name := "expect_visible"
	if !h.want {
		name = "expect_hidden"
	}
	return Schema{Name: name, Category: "assertion", Description: "assert a selector's visibility"}
}

type expectTextHandler struct{}

func (expectTextHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	want, err := requireStrParam(params, "text")
	if err != nil {
		return err
	}
	want, err = expand(sc, want)
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}
	got, err := el.Text()
	if err != nil {
		return err
	}
	if !strings.Contains(got, want) {
		return fmt.Errorf("expect_text: %s text %q does not contain %q", sel.Describe(), got, want)
	}
	return nil
}

func (expectTextHandler) DescribeSchema() Schema {
	return Schema{Name: "expect_text", Category: "assertion", Description: "assert a selector's text contains a value"}
}

type expectURLHandler struct{}

func (expectURLHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	pattern, err := requireStrParam(params, "pattern")
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("expect_url: invalid pattern %q: %w", pattern, err)
	}
	info, err := page.Info()
	if err != nil {
		return err
	}
	if !re.MatchString(info.URL) {
		return fmt.Errorf("expect_url: %q does not match pattern %q", info.URL, pattern)
	}
	return nil
}

func (expectURLHandler) DescribeSchema() Schema {
	return Schema{Name: "expect_url", Category: "assertion", Description: "assert the current URL matches a regex"}
}

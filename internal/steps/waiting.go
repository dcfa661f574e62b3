package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

type waitForHandler struct{}

func (waitForHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	state, err := requireStrParam(params, "state")
	if err != nil {
		return err
	}
	timeout := timeoutParam(params, defaultWaitTimeout)

	deadline := time.Now().Add(timeout)
	for {
		el, rerr := sc.Resolver.Resolve(page, sel, frameOf(params))
		ok, err := checkState(el, rerr, state)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait_for: %s never reached state %q within %s", sel.Describe(), state, timeout)
		}
		time.Sleep(scrollPollInterval)
	}
}

func checkState(el *rod.Element, resolveErr error, state string) (bool, error) {
	switch state {
	case "attached":
		return resolveErr == nil, nil
	case "detached":
		return resolveErr != nil, nil
	case "visible":
		if resolveErr != nil {
			return false, nil
		}
		return el.Visible()
	case "hidden":
		if resolveErr != nil {
			return true, nil
		}
		visible, err := el.Visible()
		if err != nil {
			return false, err
		}
		return !visible, nil
	default:
		return false, fmt.Errorf("wait_for: unknown state %q", state)
	}
}

func (waitForHandler) DescribeSchema() Schema {
	return Schema{Name: "wait_for", Category: "wait", Description: "wait for a selector to reach a state"}
}

type waitForVisibleHandler struct{ visible bool }

func (h waitForVisibleHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	state := "visible"
	if !h.visible {
		state = "hidden"
	}
	params = withParam(params, "state", state)
	return waitForHandler{}.Execute(ctx, page, params, sc)
}

func (h waitForVisibleHandler) DescribeSchema() Schema {
	name := "wait_for_visible"
	if !h.visible {
		name = "wait_for_hidden"
	}
	return Schema{Name: name, Category: "wait", Description: "wait for a selector to become visible/hidden"}
}

type waitForNetworkIdleHandler struct{}

func (waitForNetworkIdleHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	timeout := timeoutParam(params, defaultWaitTimeout)
	return page.Timeout(timeout).WaitIdle(timeout)
}

func (waitForNetworkIdleHandler) DescribeSchema() Schema {
	return Schema{Name: "wait_for_network_idle", Category: "wait", Description: "wait for the page's network activity to settle"}
}

func timeoutParam(params map[string]any, def time.Duration) time.Duration {
	v, ok := params["timeout"]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Millisecond
	case int64:
		return time.Duration(n) * time.Millisecond
	case float64:
		return time.Duration(n) * time.Millisecond
	default:
		return def
	}
}

func withParam(params map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out[key] = value
	return out
}

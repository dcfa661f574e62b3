package steps

import (
	"context"

	"github.com/go-rod/rod"
)

// goto is not registered here: the runner dispatches it directly against
// page.Navigate for determinism (spec.md §4.6), bypassing the registry.

type backHandler struct{}

func (backHandler) Execute(_ context.Context, page *rod.Page, _ map[string]any, _ *StepContext) error {
	if err := page.NavigateBack(); err != nil {
		return err
	}
	return page.WaitDOMStable(domStableTimeout, domStableDiff)
}

func (backHandler) DescribeSchema() Schema {
	return Schema{Name: "back", Category: "navigation", Description: "navigate back in browser history"}
}

type reloadHandler struct{}

func (reloadHandler) Execute(_ context.Context, page *rod.Page, _ map[string]any, _ *StepContext) error {
	if err := page.Reload(); err != nil {
		return err
	}
	return page.WaitDOMStable(domStableTimeout, domStableDiff)
}

func (reloadHandler) DescribeSchema() Schema {
	return Schema{Name: "reload", Category: "navigation", Description: "reload the current page"}
}

package steps

import "time"

const (
	domStableTimeout = 10 * time.Second
	domStableDiff    = 0.02

	defaultWaitTimeout = 30 * time.Second
	scrollPollInterval = 100 * time.Millisecond
)

// scrollIntoViewBestEffort attempts to scroll el into view; a failure here
// is non-fatal (spec.md §4.5: "failure to scroll is not fatal").
func scrollIntoViewBestEffort(el interface{ ScrollIntoView() error }) {
	_ = el.ScrollIntoView()
}

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kawanishi0117/flowrunner/internal/artifacts"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/steps"
)

// screenshotFormat maps the scenario's configured screenshot format to its
// CDP capture format and file extension. Quality only applies to jpeg;
// png ignores it (spec.md §4.7, §6).
func screenshotFormat(cfg scenario.ScreenshotsConfig) (proto.PageCaptureScreenshotFormat, string, *int) {
	if cfg.Format == scenario.FormatPNG {
		return proto.PageCaptureScreenshotFormatPng, "png", nil
	}
	quality := cfg.Quality
	if quality <= 0 {
		quality = 70
	}
	return proto.PageCaptureScreenshotFormatJpeg, "jpg", ptrIntVal(quality)
}

// flatStep is one step entry flattened out of its (possibly nested)
// section, carrying the section name it belongs to for StepResult.Section.
type flatStep struct {
	entry   scenario.StepEntry
	section string
}

func flatten(entries []scenario.StepEntry, section string) []flatStep {
	var out []flatStep
	for _, e := range entries {
		if e.IsSection() {
			out = append(out, flatten(e.SectionSteps(), e.SectionName())...)
			continue
		}
		out = append(out, flatStep{entry: e, section: section})
	}
	return out
}

// runSteps iterates the scenario's steps in the ten-step per-step order
// (pre-screenshot, before hooks, dispatch with timeout, after hooks,
// post-screenshot, record result, abort-on-failure). Returns true if the
// scenario failed.
func runSteps(ctx context.Context, s *scenario.Scenario, page *rod.Page, registry *steps.Registry, sc *steps.StepContext, cfg Config, result *ScenarioResult) bool {
	flat := flatten(s.Steps, "")
	mode := s.Artifacts.Screenshots.Mode
	if mode == "" {
		mode = scenario.ScreenshotBeforeEachStep
	}

	for i, fs := range flat {
		entry := fs.entry
		kind := entry.Kind()
		name := entry.Name()
		if name == "" {
			name = kind
		}

		start := time.Now()
		var screenshotPath string

		if mode == scenario.ScreenshotBeforeEachStep || mode == scenario.ScreenshotBeforeAndAfter {
			if path, err := captureStepScreenshot(sc.Artifacts, page, s.Artifacts.Screenshots, artifacts.ScreenshotBefore, name); err == nil {
				screenshotPath = path
			}
		}

		if err := runHookSequence(ctx, s.Hooks.BeforeEachStep, page, registry, sc, cfg); err != nil {
			sr := failResult(name, kind, i, fs.section, start, err)
			if path, serr := errorScreenshot(sc.Artifacts, page, name); serr == nil {
				sr.ScreenshotPath = path
			} else {
				sr.ScreenshotPath = screenshotPath
			}
			result.Steps = append(result.Steps, maskStepResult(s, sr))
			return true
		}

		dispatchErr := dispatchStep(ctx, entry, page, registry, sc, cfg)

		if hookErr := runHookSequence(ctx, s.Hooks.AfterEachStep, page, registry, sc, cfg); hookErr != nil && dispatchErr == nil {
			dispatchErr = hookErr
		}

		if mode == scenario.ScreenshotBeforeAndAfter {
			if path, err := captureStepScreenshot(sc.Artifacts, page, s.Artifacts.Screenshots, artifacts.ScreenshotAfter, name); err == nil {
				screenshotPath = path
			}
		}

		sr := StepResult{
			Name:           name,
			Kind:           kind,
			Index:          i,
			DurationMs:     time.Since(start).Milliseconds(),
			Section:        fs.section,
			ScreenshotPath: screenshotPath,
		}
		if dispatchErr != nil {
			sr.Status = StatusFailed
			sr.Error = dispatchErr.Error()
			if path, serr := errorScreenshot(sc.Artifacts, page, name); serr == nil {
				sr.ScreenshotPath = path
			}
			result.Steps = append(result.Steps, maskStepResult(s, sr))
			return true
		}
		sr.Status = StatusPassed
		result.Steps = append(result.Steps, maskStepResult(s, sr))
	}
	return false
}

// maskStepResult replaces any secret value appearing literally in a step
// result's text fields before it is recorded, mirroring SaveEnvInfo's
// masking of env.json (spec.md §4.7, §4.8).
func maskStepResult(s *scenario.Scenario, sr StepResult) StepResult {
	secrets := artifacts.CollectSecretValues(s)
	sr.Name = artifacts.MaskValues(sr.Name, secrets)
	sr.Error = artifacts.MaskValues(sr.Error, secrets)
	return sr
}

func runHookSequence(ctx context.Context, hooks []scenario.StepEntry, page *rod.Page, registry *steps.Registry, sc *steps.StepContext, cfg Config) error {
	for _, h := range hooks {
		if err := dispatchStep(ctx, h, page, registry, sc, cfg); err != nil {
			return fmt.Errorf("hook step %q: %w", h.Name(), err)
		}
	}
	return nil
}

// dispatchStep runs a single step entry, special-casing goto (which the
// registry deliberately excludes so navigation stays under the
// orchestrator's direct control) and applying the per-step timeout.
func dispatchStep(ctx context.Context, entry scenario.StepEntry, page *rod.Page, registry *steps.Registry, sc *steps.StepContext, cfg Config) error {
	kind := entry.Kind()

	stepCtx := ctx
	var cancel context.CancelFunc
	if cfg.StepTimeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, cfg.StepTimeout)
		defer cancel()
	}

	if kind == "goto" {
		return dispatchGoto(stepCtx, entry, page)
	}

	handler, err := registry.Get(kind)
	if err != nil {
		return err
	}

	expanded, err := sc.Expander.ExpandValue(entry.Params())
	if err != nil {
		return err
	}
	params, _ := expanded.(map[string]any)
	if params == nil {
		params = entry.ParamsMap()
	}

	done := make(chan error, 1)
	go func() {
		done <- handler.Execute(stepCtx, page, params, sc)
	}()

	select {
	case err := <-done:
		if err != nil {
			return &steps.StepExecutionError{Step: kind, Cause: err}
		}
		return nil
	case <-stepCtx.Done():
		return &StepTimeoutError{Step: kind, Budget: cfg.StepTimeout}
	}
}

func dispatchGoto(ctx context.Context, entry scenario.StepEntry, page *rod.Page) error {
	url, _ := entry.Params().(string)
	if url == "" {
		if m := entry.ParamsMap(); m != nil {
			if u, ok := m["url"].(string); ok {
				url = u
			}
		}
	}
	if err := page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("goto %q: %w", url, err)
	}
	return page.WaitDOMStable(domStableWait, 0.02)
}

func captureStepScreenshot(mgr *artifacts.Manager, page *rod.Page, cfg scenario.ScreenshotsConfig, kind artifacts.ScreenshotKind, name string) (string, error) {
	if mgr == nil {
		return "", fmt.Errorf("no artifacts manager")
	}
	format, ext, quality := screenshotFormat(cfg)
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: format, Quality: quality})
	if err != nil {
		return "", err
	}
	return mgr.SaveScreenshot(kind, mgr.NextIndex(), name, ext, data)
}

// errorScreenshot always captures PNG, matching the fixed ".png" filename
// ScreenshotPath computes for ScreenshotError regardless of the scenario's
// configured step-screenshot format (spec.md §4.7, §6).
func errorScreenshot(mgr *artifacts.Manager, page *rod.Page, name string) (string, error) {
	if mgr == nil {
		return "", nil
	}
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		return "", err
	}
	return mgr.SaveScreenshot(artifacts.ScreenshotError, mgr.NextIndex(), name, "png", data)
}

func ptrIntVal(i int) *int { return &i }

func failResult(name, kind string, index int, section string, start time.Time, err error) StepResult {
	return StepResult{
		Name:       name,
		Kind:       kind,
		Index:      index,
		Status:     StatusFailed,
		DurationMs: time.Since(start).Milliseconds(),
		Error:      err.Error(),
		Section:    section,
	}
}

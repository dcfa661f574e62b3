package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kawanishi0117/flowrunner/internal/artifacts"
)

type screenshotHandler struct{}

func (screenshotHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	if sc.Artifacts == nil {
		return nil
	}
	name, _ := strParam(params, "name")
	if name == "" {
		name = "screenshot"
	}
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatJpeg, Quality: ptrInt(70)})
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	_, err = sc.Artifacts.SaveScreenshot(artifacts.ScreenshotBefore, sc.Artifacts.NextIndex(), name, "jpg", data)
	return err
}

func ptrInt(i int) *int { return &i }

func (screenshotHandler) DescribeSchema() Schema {
	return Schema{Name: "screenshot", Category: "debug", Description: "capture an ad-hoc screenshot"}
}

type logHandler struct{}

func (logHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	message, err := requireStrParam(params, "message")
	if err != nil {
		return err
	}
	message, err = expand(sc, message)
	if err != nil {
		return err
	}
	slog.Info("step log", "message", message)
	return nil
}

func (logHandler) DescribeSchema() Schema {
	return Schema{Name: "log", Category: "debug", Description: "emit a log message"}
}

type dumpDomHandler struct{}

func (dumpDomHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	sel, err := selectorFrom(params)
	if err != nil {
		return err
	}
	el, err := sc.Resolver.Resolve(page, sel, frameOf(params))
	if err != nil {
		return err
	}
	html, err := el.HTML()
	if err != nil {
		return err
	}
	slog.Debug("dump_dom", "selector", sel.Describe(), "html", html)
	return nil
}

func (dumpDomHandler) DescribeSchema() Schema {
	return Schema{Name: "dump_dom", Category: "debug", Description: "log a resolved element's outer HTML"}
}

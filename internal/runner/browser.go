package runner

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// launchBrowser starts a browser per cfg, headed or headless with an
// optional slow-motion delay (spec.md §4.6 step 2).
func launchBrowser(cfg Config) (*rod.Browser, error) {
	u, err := launcher.New().Headless(cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if cfg.SlowMo > 0 {
		browser = browser.SlowMotion(cfg.SlowMo)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, nil
}

// tracer owns the CDP Tracing session backing the trace.zip artifact. Go-rod
// has no direct equivalent to Playwright's context.tracing; the CDP
// Tracing domain is the closest primitive, so the recorded trace events
// are archived into a zip for the same on-disk shape spec.md §4.7 names.
type tracer struct {
	page   *rod.Page
	events []json.RawMessage
	active bool
}

func startTracing(page *rod.Page, mode scenario.ArtifactMode) (*tracer, error) {
	if mode == scenario.ModeNone {
		return &tracer{}, nil
	}
	t := &tracer{page: page}
	go page.EachEvent(func(e *proto.TracingDataCollected) {
		data, _ := json.Marshal(e.Value)
		t.events = append(t.events, data)
	})()
	if err := (proto.TracingStart{TransferMode: proto.TracingStartTransferModeReportEvents}).Call(page); err != nil {
		return nil, fmt.Errorf("starting trace: %w", err)
	}
	t.active = true
	return t, nil
}

// stop ends the CDP trace and returns the recorded events archived as a
// zip (trace.json inside), ready for Manager.SaveTrace. Returns nil, nil
// if tracing was never started.
func (t *tracer) stop() ([]byte, error) {
	if !t.active {
		return nil, nil
	}
	complete := t.page.WaitEvent(&proto.TracingTracingComplete{})
	if err := (proto.TracingEnd{}).Call(t.page); err == nil {
		complete()
	}
	t.active = false

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("trace.json")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte("[" + joinRawEvents(t.events) + "]")); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinRawEvents(events []json.RawMessage) string {
	out := ""
	for i, e := range events {
		if i > 0 {
			out += ","
		}
		out += string(e)
	}
	return out
}

// videoRecorder captures a JPEG screencast into the run's video
// directory. go-rod has no built-in video encoder (and none of the
// example stack carries ffmpeg bindings), so frames are archived as a
// sequentially-numbered JPEG set under video/ rather than a single
// container file — an adapted analog of Playwright's recorded webm.
type videoRecorder struct {
	page    *rod.Page
	stop    func()
	dir     string
	frameID int
}

func startVideo(page *rod.Page, runDir string, mode scenario.ArtifactMode) (*videoRecorder, error) {
	if mode == scenario.ModeNone {
		return &videoRecorder{}, nil
	}
	dir := filepath.Join(runDir, "video")
	rec := &videoRecorder{page: page, dir: dir}
	go page.EachEvent(func(e *proto.PageScreencastFrame) {
		rec.frameID++
		_ = os.WriteFile(filepath.Join(dir, fmt.Sprintf("frame-%05d.jpg", rec.frameID)), e.Data, 0o644)
		_ = proto.PageScreencastFrameAck{SessionID: e.SessionID}.Call(page)
	})()
	if err := (proto.PageStartScreencast{Format: proto.PageStartScreencastFormatJpeg}).Call(page); err != nil {
		return nil, fmt.Errorf("starting screencast: %w", err)
	}
	return rec, nil
}

func (v *videoRecorder) stopRecording() {
	if v.page == nil {
		return
	}
	_ = proto.PageStopScreencast{}.Call(v.page)
}

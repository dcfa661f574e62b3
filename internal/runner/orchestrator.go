package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/kawanishi0117/flowrunner/internal/artifacts"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/selector"
	"github.com/kawanishi0117/flowrunner/internal/steps"
)

// Run executes one scenario end to end: artifact directory, browser
// lifecycle, step iteration with hooks, and aggregate result
// computation (spec.md §4.6). The registry argument lets callers extend
// or shadow built-in step kinds; pass steps.NewDefaultRegistry() for the
// stock handler set.
func Run(ctx context.Context, s *scenario.Scenario, cfg Config, registry *steps.Registry) (*ScenarioResult, error) {
	started := time.Now()

	mgr, err := artifacts.NewManager(cfg.ArtifactsBase)
	if err != nil {
		return nil, err
	}
	if err := mgr.SaveFlowCopy(s); err != nil {
		logArtifactErr(err)
	}

	browser, err := launchBrowser(cfg)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	trace, err := startTracing(page, s.Artifacts.Trace.Mode)
	if err != nil {
		logArtifactErr(err)
		trace = &tracer{}
	}
	video, err := startVideo(page, mgr.RunDir(), s.Artifacts.Video.Mode)
	if err != nil {
		logArtifactErr(err)
		video = &videoRecorder{}
	}

	if !firstStepIsGoto(s.Steps) && s.BaseURL != "" {
		if err := page.Timeout(domStableWait).Navigate(s.BaseURL); err != nil {
			return nil, fmt.Errorf("navigating to base_url: %w", err)
		}
		if err := page.WaitDOMStable(domStableWait, 0.02); err != nil {
			logArtifactErr(err)
		}
	}

	envForExpansion := envMap()
	sc := &steps.StepContext{
		Resolver:  selector.New(s.Healing),
		Expander:  scenario.NewExpander(envForExpansion, s.Vars),
		Artifacts: mgr,
	}
	go page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		if e.Type == proto.RuntimeConsoleAPICalledTypeError {
			sc.AppendConsoleError(describeConsoleArgs(e))
		}
	})()

	result := &ScenarioResult{
		Title:        s.Title,
		StartedAt:    started,
		ArtifactsDir: mgr.RunDir(),
	}

	failed := runSteps(ctx, s, page, registry, sc, cfg, result)

	video.stopRecording()
	if data, terr := trace.stop(); terr == nil && data != nil {
		if _, serr := mgr.SaveTrace(data); serr != nil {
			logArtifactErr(serr)
		}
	}
	if err := mgr.SaveEnvInfo(s, started); err != nil {
		logArtifactErr(err)
	}
	if !failed {
		if err := mgr.CleanupOnSuccess(s.Artifacts); err != nil {
			logArtifactErr(err)
		}
	}

	result.FinishedAt = time.Now()
	result.DurationMs = result.FinishedAt.Sub(result.StartedAt).Milliseconds()
	if failed {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result, nil
}

const domStableWait = 10 * time.Second

func firstStepIsGoto(entries []scenario.StepEntry) bool {
	for _, e := range entries {
		if e.IsSection() {
			return false
		}
		return e.Kind() == "goto"
	}
	return false
}

// envMap snapshots the process environment into the ${env.X} namespace.
func envMap() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				out[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return out
}

func describeConsoleArgs(e *proto.RuntimeConsoleAPICalled) string {
	if len(e.Args) == 0 {
		return "console.error"
	}
	if e.Args[0].Value.Val() != nil {
		return fmt.Sprintf("%v", e.Args[0].Value.Val())
	}
	return "console.error"
}

func logArtifactErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "artifact warning:", err)
}

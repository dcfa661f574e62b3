package artifacts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// RuntimeVersion is reported in env.json; overridable in tests.
var RuntimeVersion = "go" + runtime.Version()[2:]

// ArtifactError wraps a failure from the artifacts manager. Per spec.md
// §7, most artifact failures are non-fatal (logged by the caller); only
// run-directory creation at start is fatal.
type ArtifactError struct {
	Op    string
	Cause error
}

func (e *ArtifactError) Error() string { return fmt.Sprintf("artifacts: %s: %v", e.Op, e.Cause) }
func (e *ArtifactError) Unwrap() error { return e.Cause }

// Manager owns a single run's directory and the monotonic screenshot
// counter (spec.md: "indices use a monotonically increasing counter
// maintained by the artifacts manager, independent of sectioning").
type Manager struct {
	baseDir string
	runDir  string

	mu      sync.Mutex
	counter int
}

var nameRe = regexp.MustCompile(`[^\w\-]`)
var dashRun = regexp.MustCompile(`-+`)

// sanitizeStepName implements spec.md §4.7's sanitizer:
// [^\w\-] -> "-", collapse consecutive "-", strip leading/trailing "-".
func sanitizeStepName(name string) string {
	s := nameRe.ReplaceAllString(name, "-")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewManager creates the base artifacts directory and a fresh run
// directory inside it, with subdirectories screenshots/, trace/, video/,
// logs/ created eagerly (spec.md §4.7). A file lock on the base directory
// tie-breaks concurrent runs that would otherwise collide on the same
// second-resolution timestamp.
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &ArtifactError{Op: "create base directory", Cause: err}
	}

	lock := flock.New(filepath.Join(baseDir, ".run-lock"))
	if err := lock.Lock(); err != nil {
		return nil, &ArtifactError{Op: "acquire run-dir lock", Cause: err}
	}
	defer lock.Unlock()

	var runDir string
	base := time.Now().Format("20060102-150405")
	for attempt := 0; ; attempt++ {
		name := fmt.Sprintf("run-%s", base)
		if attempt > 0 {
			name = fmt.Sprintf("run-%s-%d", base, attempt)
		}
		candidate := filepath.Join(baseDir, name)
		if err := os.Mkdir(candidate, 0o755); err == nil {
			runDir = candidate
			break
		} else if !os.IsExist(err) {
			return nil, &ArtifactError{Op: "create run directory", Cause: err}
		}
	}

	for _, sub := range []string{"screenshots", "trace", "video", "logs"} {
		if err := os.MkdirAll(filepath.Join(runDir, sub), 0o755); err != nil {
			return nil, &ArtifactError{Op: "create " + sub + " directory", Cause: err}
		}
	}

	return &Manager{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run's root directory.
func (m *Manager) RunDir() string { return m.runDir }

// NextIndex returns the next monotonically increasing screenshot index.
func (m *Manager) NextIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.counter
}

// ScreenshotPath computes the destination path for a screenshot, per the
// two naming shapes in spec.md §4.6/§4.7.
func (m *Manager) ScreenshotPath(kind ScreenshotKind, index int, stepName string, ext string) string {
	safe := sanitizeStepName(stepName)
	switch kind {
	case ScreenshotError:
		return filepath.Join(m.runDir, "screenshots", fmt.Sprintf("step%03d_%s_error.png", index, safe))
	case ScreenshotAfter:
		return filepath.Join(m.runDir, "screenshots", fmt.Sprintf("%04d_after-%s.%s", index, safe, ext))
	default:
		return filepath.Join(m.runDir, "screenshots", fmt.Sprintf("%04d_before-%s.%s", index, safe, ext))
	}
}

// SaveScreenshot writes screenshot bytes to their computed path and
// returns the path relative to the run directory, using forward slashes
// (spec.md §4.8's report path convention).
func (m *Manager) SaveScreenshot(kind ScreenshotKind, index int, stepName, ext string, data []byte) (string, error) {
	path := m.ScreenshotPath(kind, index, stepName, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ArtifactError{Op: "save screenshot", Cause: err}
	}
	return m.relPath(path), nil
}

// SaveTrace writes trace bytes to trace/trace.zip.
func (m *Manager) SaveTrace(data []byte) (string, error) {
	path := filepath.Join(m.runDir, "trace", "trace.zip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ArtifactError{Op: "save trace", Cause: err}
	}
	return m.relPath(path), nil
}

// SaveVideo copies a recorded video file into video/.
func (m *Manager) SaveVideo(srcPath string) (string, error) {
	dst := filepath.Join(m.runDir, "video", filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		return "", &ArtifactError{Op: "save video", Cause: err}
	}
	return m.relPath(dst), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// SaveFlowCopy serializes the executed scenario back to flow.yaml.
func (m *Manager) SaveFlowCopy(s *scenario.Scenario) error {
	data, err := scenario.Dump(s)
	if err != nil {
		return &ArtifactError{Op: "dump flow copy", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(m.runDir, "flow.yaml"), data, 0o644); err != nil {
		return &ArtifactError{Op: "write flow.yaml", Cause: err}
	}
	return nil
}

// SaveEnvInfo writes env.json: title, base_url, secret-masked vars,
// healing mode, runtime version, platform, timestamp (spec.md §4.7).
func (m *Manager) SaveEnvInfo(s *scenario.Scenario, now time.Time) error {
	secrets := CollectSecretValues(s)
	masked := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		masked[k] = MaskValues(v, secrets)
	}

	info := EnvInfo{
		Title:          s.Title,
		BaseURL:        s.BaseURL,
		Vars:           masked,
		Healing:        string(s.Healing),
		RuntimeVersion: RuntimeVersion,
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		Timestamp:      now,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return &ArtifactError{Op: "marshal env.json", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(m.runDir, "env.json"), data, 0o644); err != nil {
		return &ArtifactError{Op: "write env.json", Cause: err}
	}
	return nil
}

// CleanupOnSuccess removes trace/ and/or video/ when their mode is
// on_failure, after a scenario finished without failure. always is never
// cleaned; screenshots are never cleaned (spec.md §4.7).
func (m *Manager) CleanupOnSuccess(cfg scenario.ArtifactsConfig) error {
	if cfg.Trace.Mode == scenario.ModeOnFailure {
		if err := os.RemoveAll(filepath.Join(m.runDir, "trace")); err != nil {
			return &ArtifactError{Op: "cleanup trace", Cause: err}
		}
	}
	if cfg.Video.Mode == scenario.ModeOnFailure {
		if err := os.RemoveAll(filepath.Join(m.runDir, "video")); err != nil {
			return &ArtifactError{Op: "cleanup video", Cause: err}
		}
	}
	return nil
}

func (m *Manager) relPath(path string) string {
	rel, err := filepath.Rel(m.runDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// Package scenario defines the YAML scenario document's data model: the
// root Scenario, its step entries, the selector sum type, and the
// artifact/hook configuration nested inside it.
package scenario

// Scenario is the root document, immutable after Load returns it.
type Scenario struct {
	Title     string                 `yaml:"title"`
	BaseURL   string                 `yaml:"base_url"`
	Vars      map[string]string      `yaml:"vars,omitempty"`
	Artifacts ArtifactsConfig        `yaml:"artifacts,omitempty"`
	Hooks     Hooks                  `yaml:"hooks,omitempty"`
	Steps     []StepEntry            `yaml:"steps"`
	Healing   HealingMode            `yaml:"healing,omitempty"`
}

// HealingMode is the selector-resolver healing policy.
type HealingMode string

const (
	HealingOff  HealingMode = "off"
	HealingSafe HealingMode = "safe"
)

// Hooks carries the two ordered step sequences run around every non-hook step.
type Hooks struct {
	BeforeEachStep []StepEntry `yaml:"before_each_step,omitempty"`
	AfterEachStep  []StepEntry `yaml:"after_each_step,omitempty"`
}

// ScreenshotMode controls when the runner captures step screenshots.
type ScreenshotMode string

const (
	ScreenshotBeforeEachStep  ScreenshotMode = "before_each_step"
	ScreenshotBeforeAndAfter  ScreenshotMode = "before_and_after"
	ScreenshotNone            ScreenshotMode = "none"
)

// ScreenshotFormat is the image format written for step screenshots.
type ScreenshotFormat string

const (
	FormatJPEG ScreenshotFormat = "jpeg"
	FormatPNG  ScreenshotFormat = "png"
)

// ArtifactMode controls trace/video retention.
type ArtifactMode string

const (
	ModeOnFailure ArtifactMode = "on_failure"
	ModeAlways    ArtifactMode = "always"
	ModeNone      ArtifactMode = "none"
)

// ScreenshotsConfig configures the screenshots captured per step.
type ScreenshotsConfig struct {
	Mode    ScreenshotMode   `yaml:"mode,omitempty"`
	Format  ScreenshotFormat `yaml:"format,omitempty"`
	Quality int              `yaml:"quality,omitempty"`
}

// TraceConfig configures browser-context tracing.
type TraceConfig struct {
	Mode ArtifactMode `yaml:"mode,omitempty"`
}

// VideoConfig configures page video recording.
type VideoConfig struct {
	Mode ArtifactMode `yaml:"mode,omitempty"`
}

// ArtifactsConfig is the scenario's nested artifact configuration (§6).
type ArtifactsConfig struct {
	Screenshots ScreenshotsConfig `yaml:"screenshots,omitempty"`
	Trace       TraceConfig       `yaml:"trace,omitempty"`
	Video       VideoConfig       `yaml:"video,omitempty"`
}

// DefaultArtifactsConfig returns the documented §6 defaults.
func DefaultArtifactsConfig() ArtifactsConfig {
	return ArtifactsConfig{
		Screenshots: ScreenshotsConfig{
			Mode:    ScreenshotBeforeEachStep,
			Format:  FormatJPEG,
			Quality: 70,
		},
		Trace: TraceConfig{Mode: ModeOnFailure},
		Video: VideoConfig{Mode: ModeOnFailure},
	}
}

// StepEntry is a tagged container kept deliberately loose at parse time: a
// mapping with exactly one kind key (the handler name, or "section") plus
// whatever keys that kind defines. Kept as a raw map so handler-level
// validation can be delegated to each handler's own parameter schema,
// per spec.md §9's "loose-typed step entries" design note.
type StepEntry map[string]any

// Kind returns the entry's single kind key, or "" if the entry is empty or
// has more than the permitted shape. Common keys (name, frame, secret) do
// not count as a kind key — only the dispatch key does, and by convention
// a StepEntry carries exactly one of those alongside the common keys.
func (s StepEntry) Kind() string {
	kind := ""
	for _, k := range stepKindOrder(s) {
		if isCommonKey(k) {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = k
	}
	return kind
}

func isCommonKey(k string) bool {
	switch k {
	case "name", "frame", "secret":
		return true
	default:
		return false
	}
}

// stepKindOrder returns the entry's keys; map iteration order is
// non-deterministic in Go, but a StepEntry has at most one non-common key
// by construction (enforced at validation time), so order never matters
// for Kind() specifically — this indirection exists only to keep the
// "which key is the kind" logic in one place.
func stepKindOrder(s StepEntry) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Name returns the step's user-provided name, or "" if absent.
func (s StepEntry) Name() string {
	if v, ok := s["name"]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// IsSection reports whether this entry is a `section` grouping.
func (s StepEntry) IsSection() bool {
	_, ok := s["section"]
	return ok
}

// SectionName returns the section's name; only meaningful if IsSection().
func (s StepEntry) SectionName() string {
	if v, ok := s["section"]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// SectionSteps returns the section's nested steps; only meaningful if
// IsSection().
func (s StepEntry) SectionSteps() []StepEntry {
	v, ok := s["steps"]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	steps := make([]StepEntry, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			steps = append(steps, StepEntry(m))
		}
	}
	return steps
}

// Params returns the value carried by the step's kind key.
func (s StepEntry) Params() any {
	kind := s.Kind()
	if kind == "" {
		return nil
	}
	return s[kind]
}

// ParamsMap returns Params() as a map, or an empty map if the kind's value
// is not itself a mapping (e.g. `goto: "http://..."`).
func (s StepEntry) ParamsMap() map[string]any {
	if m, ok := s.Params().(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Secret reports whether this step is flagged secret: true, either at the
// top level or nested inside its params (mirroring fill's `secret` key).
func (s StepEntry) Secret() bool {
	if v, ok := s["secret"]; ok {
		if b, ok := v.(bool); ok && b {
			return true
		}
	}
	if b, ok := s.ParamsMap()["secret"]; ok {
		if bv, ok := b.(bool); ok {
			return bv
		}
	}
	return false
}

package scenario

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// rawDoc mirrors the top-level YAML shape before structural validation
// promotes it into a Scenario. Kept as a loosely-typed map-of-any per
// spec.md §9's "loose-typed step entries" design note — step entries and
// selectors are validated field-by-field rather than via yaml
// struct-tag unmarshaling, so that every violation can be collected
// instead of failing fast on the first bad field.
type rawDoc struct {
	Title     string         `yaml:"title"`
	BaseURL   string         `yaml:"base_url"`
	Vars      map[string]any `yaml:"vars"`
	Artifacts map[string]any `yaml:"artifacts"`
	Hooks     map[string]any `yaml:"hooks"`
	Steps     []any          `yaml:"steps"`
	Healing   string         `yaml:"healing"`
}

var varRefGrammar = regexp.MustCompile(`^\$\{(env|vars)\.[A-Za-z_][A-Za-z0-9_]*\}$`)
var anyCurlyRef = regexp.MustCompile(`\$\{[^}]*\}`)

// Load parses and structurally validates a YAML scenario document.
// Validation errors are collected, not short-circuited (spec.md §4.1).
func Load(data []byte) (*Scenario, ValidationErrors) {
	var raw rawDoc
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{Path: "yaml", Message: err.Error()}}
	}

	var errs ValidationErrors

	if raw.Title == "" {
		errs = append(errs, ValidationError{Path: "title", Message: "must be non-empty"})
	}
	if raw.BaseURL == "" {
		errs = append(errs, ValidationError{Path: "base_url", Message: "must be non-empty"})
	}

	vars := make(map[string]string, len(raw.Vars))
	for k, v := range raw.Vars {
		s := fmt.Sprint(v)
		vars[k] = s
		for _, ref := range anyCurlyRef.FindAllString(s, -1) {
			if !varRefGrammar.MatchString(ref) {
				errs = append(errs, ValidationError{
					Path:    "vars." + k,
					Message: fmt.Sprintf("illegal variable reference %q: only ${env.NAME} and ${vars.NAME} are permitted", ref),
				})
			}
		}
	}

	healing := HealingMode(raw.Healing)
	if healing == "" {
		healing = HealingOff
	}
	if healing != HealingOff && healing != HealingSafe {
		errs = append(errs, ValidationError{Path: "healing", Message: fmt.Sprintf("unknown healing mode %q", raw.Healing)})
	}

	artifacts, aerrs := validateArtifacts(raw.Artifacts)
	errs = append(errs, aerrs...)

	hooks, herrs := validateHooks(raw.Hooks)
	errs = append(errs, herrs...)

	steps, serrs := validateSteps(raw.Steps, "steps")
	errs = append(errs, serrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	return &Scenario{
		Title:     raw.Title,
		BaseURL:   raw.BaseURL,
		Vars:      vars,
		Artifacts: artifacts,
		Hooks:     hooks,
		Steps:     steps,
		Healing:   healing,
	}, nil
}

// LoadFile reads and loads a scenario document from disk.
func LoadFile(path string) (*Scenario, ValidationErrors) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ValidationErrors{{Path: "file", Message: err.Error()}}
	}
	return Load(data)
}

func validateArtifacts(raw map[string]any) (ArtifactsConfig, ValidationErrors) {
	cfg := DefaultArtifactsConfig()
	var errs ValidationErrors
	if raw == nil {
		return cfg, nil
	}

	if ss, ok := raw["screenshots"].(map[string]any); ok {
		if m, ok := ss["mode"]; ok {
			mode := ScreenshotMode(fmt.Sprint(m))
			if mode != ScreenshotBeforeEachStep && mode != ScreenshotBeforeAndAfter && mode != ScreenshotNone {
				errs = append(errs, ValidationError{Path: "artifacts.screenshots.mode", Message: "must be one of before_each_step, before_and_after, none"})
			} else {
				cfg.Screenshots.Mode = mode
			}
		}
		if f, ok := ss["format"]; ok {
			format := ScreenshotFormat(fmt.Sprint(f))
			if format != FormatJPEG && format != FormatPNG {
				errs = append(errs, ValidationError{Path: "artifacts.screenshots.format", Message: "must be jpeg or png"})
			} else {
				cfg.Screenshots.Format = format
			}
		}
		if q, ok := ss["quality"]; ok {
			qi, ok := toInt(q)
			if !ok || qi < 1 || qi > 100 {
				errs = append(errs, ValidationError{Path: "artifacts.screenshots.quality", Message: "must be in [1,100]"})
			} else {
				cfg.Screenshots.Quality = qi
			}
		}
	}

	if t, ok := raw["trace"].(map[string]any); ok {
		if mode, ok := validateArtifactMode(t, "artifacts.trace.mode", &errs); ok {
			cfg.Trace.Mode = mode
		}
	}
	if v, ok := raw["video"].(map[string]any); ok {
		if mode, ok := validateArtifactMode(v, "artifacts.video.mode", &errs); ok {
			cfg.Video.Mode = mode
		}
	}

	return cfg, errs
}

func validateArtifactMode(m map[string]any, path string, errs *ValidationErrors) (ArtifactMode, bool) {
	raw, ok := m["mode"]
	if !ok {
		return "", false
	}
	mode := ArtifactMode(fmt.Sprint(raw))
	if mode != ModeOnFailure && mode != ModeAlways && mode != ModeNone {
		*errs = append(*errs, ValidationError{Path: path, Message: "must be one of on_failure, always, none"})
		return "", false
	}
	return mode, true
}

func validateHooks(raw map[string]any) (Hooks, ValidationErrors) {
	var hooks Hooks
	var errs ValidationErrors
	if raw == nil {
		return hooks, nil
	}
	if b, ok := raw["before_each_step"].([]any); ok {
		steps, serrs := validateSteps(b, "hooks.before_each_step")
		hooks.BeforeEachStep = steps
		errs = append(errs, serrs...)
	}
	if a, ok := raw["after_each_step"].([]any); ok {
		steps, serrs := validateSteps(a, "hooks.after_each_step")
		hooks.AfterEachStep = steps
		errs = append(errs, serrs...)
	}
	return hooks, errs
}

// validateSteps checks each entry has exactly one kind key (beyond the
// common keys name/frame/secret), recursing into `section` groups.
func validateSteps(raw []any, path string) ([]StepEntry, ValidationErrors) {
	var errs ValidationErrors
	steps := make([]StepEntry, 0, len(raw))

	for i, item := range raw {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, ValidationError{Path: itemPath, Message: "step must be a mapping"})
			continue
		}
		entry := StepEntry(m)

		if entry.IsSection() {
			inner, ierrs := validateSteps(toAnySlice(m["steps"]), itemPath+".steps")
			errs = append(errs, ierrs...)
			// normalize back into []any for downstream SectionSteps() use
			normalized := make([]any, len(inner))
			for j, s := range inner {
				normalized[j] = map[string]any(s)
			}
			m["steps"] = normalized
			steps = append(steps, StepEntry(m))
			continue
		}

		kindKeys := 0
		for k := range m {
			if !isCommonKey(k) && k != "section" {
				kindKeys++
			}
		}
		if kindKeys != 1 {
			errs = append(errs, ValidationError{
				Path:    itemPath,
				Message: fmt.Sprintf("step must have exactly one kind key, found %d", kindKeys),
			})
			continue
		}

		if selectorBearingKinds[entry.Kind()] {
			if _, serrs := ParseSelector(selectorRaw(entry), itemPath+".by"); len(serrs) > 0 {
				errs = append(errs, serrs...)
				continue
			}
		}

		steps = append(steps, entry)
	}

	return steps, errs
}

// selectorBearingKinds lists step kinds whose params carry a selector
// (mirroring internal/lint's selectorStepKinds), so §4.1's "Any.candidates
// non-empty and leaf-only" invariant is caught at Load time instead of
// surfacing as a runtime step failure.
var selectorBearingKinds = map[string]bool{
	"click": true, "dblclick": true, "fill": true, "press": true,
	"check": true, "uncheck": true, "select_option": true,
	"wait_for": true, "wait_for_visible": true, "wait_for_hidden": true,
	"expect_visible": true, "expect_hidden": true, "expect_text": true,
	"store_text": true, "store_attr": true, "dump_dom": true,
}

// selectorRaw returns the value ParseSelector should see for a
// selector-bearing step: its "by" field if present, otherwise its whole
// params map (steps like click accept selector keys inline).
func selectorRaw(entry StepEntry) any {
	params := entry.ParamsMap()
	if by, ok := params["by"]; ok {
		return by
	}
	return params
}

func toAnySlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Dump serializes a Scenario back to YAML. Round-trip property (spec.md
// §8): Load(Dump(s)) must equal s semantically on every field, including
// vars contents and step order.
func Dump(s *Scenario) ([]byte, error) {
	doc := map[string]any{
		"title":    s.Title,
		"base_url": s.BaseURL,
		"healing":  string(s.Healing),
	}
	if len(s.Vars) > 0 {
		vars := make(map[string]any, len(s.Vars))
		for k, v := range s.Vars {
			vars[k] = v
		}
		doc["vars"] = vars
	}
	doc["artifacts"] = map[string]any{
		"screenshots": map[string]any{
			"mode":    string(s.Artifacts.Screenshots.Mode),
			"format":  string(s.Artifacts.Screenshots.Format),
			"quality": s.Artifacts.Screenshots.Quality,
		},
		"trace": map[string]any{"mode": string(s.Artifacts.Trace.Mode)},
		"video": map[string]any{"mode": string(s.Artifacts.Video.Mode)},
	}
	if len(s.Hooks.BeforeEachStep) > 0 || len(s.Hooks.AfterEachStep) > 0 {
		doc["hooks"] = map[string]any{
			"before_each_step": stepsToAny(s.Hooks.BeforeEachStep),
			"after_each_step":  stepsToAny(s.Hooks.AfterEachStep),
		}
	}
	doc["steps"] = stepsToAny(s.Steps)

	return yaml.Marshal(doc)
}

func stepsToAny(steps []StepEntry) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = map[string]any(s)
	}
	return out
}

package artifacts

import (
	"strings"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// CollectSecretValues walks every step in the scenario — top-level steps,
// both hook sequences, and nested section steps — and gathers the values
// of every fill step flagged secret: true. spec.md §4.7 describes mask_secrets
// as scanning "every fill step's value" but names only the top-level steps;
// hooks and sections can carry fill steps too, so this widens the sweep to
// match, since a secret buried in a before_each_step hook deserves the same
// masking as one in the main flow.
func CollectSecretValues(s *scenario.Scenario) []string {
	var values []string
	collect(s.Steps, &values)
	collect(s.Hooks.BeforeEachStep, &values)
	collect(s.Hooks.AfterEachStep, &values)
	return values
}

func collect(steps []scenario.StepEntry, out *[]string) {
	for _, step := range steps {
		if step.IsSection() {
			collect(step.SectionSteps(), out)
			continue
		}
		if !step.Secret() {
			continue
		}
		if v, ok := step.ParamsMap()["value"]; ok {
			if str, ok := v.(string); ok && str != "" {
				*out = append(*out, str)
			}
		}
	}
}

// MaskSecrets replaces every secret value found in the scenario with ***
// wherever it appears literally in text — used by report generation and
// the env manifest (spec.md §4.7).
func MaskSecrets(s *scenario.Scenario, text string) string {
	return MaskValues(text, CollectSecretValues(s))
}

// MaskValues replaces every value in secrets with *** wherever it appears
// literally in text.
func MaskValues(text string, secrets []string) string {
	for _, v := range secrets {
		if v == "" {
			continue
		}
		text = strings.ReplaceAll(text, v, "***")
	}
	return text
}

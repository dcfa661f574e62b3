// Package author implements the three LLM-assisted authoring operations
// named in spec.md §4.10: draft (spec text to scenario), refine (improve
// an existing scenario), and explain (describe a scenario in prose).
// Each is a thin wrapper around an injectable text-completion port, so
// the package never depends on a concrete model client. Grounded on
// original_source's tool/brt/ai/draft.py and refine.py — LlmClient
// Protocol ported to a Go interface, stub clients kept for the same
// default-construction convenience.
package author

import (
	"fmt"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// Generator is the injectable text-completion port every authoring
// operation is built on. Concrete model clients live outside this
// package; tests and default construction use a stub.
type Generator interface {
	Generate(systemPrompt, userPrompt string) (string, error)
}

// SecretLost is raised by Refine when a refined scenario carries fewer
// secret: true flags than the scenario it started from.
type SecretLost struct {
	Before int
	After  int
}

func (e *SecretLost) Error() string {
	return fmt.Sprintf("refine lost secret flags: before=%d, after=%d", e.Before, e.After)
}

const draftSystemPrompt = `You are an assistant that converts a natural-language UI test description into a YAML browser-automation scenario. Respond with YAML only, no commentary.`

const refineSystemPrompt = `You are an assistant that improves an existing YAML browser-automation scenario: tighten selectors, add any-fallbacks, and flag secret fields. Preserve every existing secret: true flag. Respond with YAML only, no commentary.`

const explainSystemPrompt = `You are an assistant that explains a YAML browser-automation scenario in plain prose for a non-technical reviewer.`

// Drafter turns a natural-language spec into a Scenario.
type Drafter struct {
	gen Generator
}

// NewDrafter wraps gen. A nil gen falls back to a stub that returns a
// minimal valid scenario, mirroring _StubLlmClient's role in tests and
// offline use.
func NewDrafter(gen Generator) *Drafter {
	if gen == nil {
		gen = stubDraftGenerator{}
	}
	return &Drafter{gen: gen}
}

// Draft generates a Scenario from a free-text description.
func (d *Drafter) Draft(specText string) (*scenario.Scenario, error) {
	userPrompt := fmt.Sprintf("Write a scenario for the following test specification:\n\n%s", specText)
	raw, err := d.gen.Generate(draftSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("draft: generation failed: %w", err)
	}
	s, errs := scenario.Load([]byte(raw))
	if len(errs) > 0 {
		return nil, fmt.Errorf("draft: generated scenario failed validation: %w", errs)
	}
	return s, nil
}

// Refiner improves an existing Scenario, enforcing that no secret: true
// flag present before refinement goes missing afterward.
type Refiner struct {
	gen Generator
}

// NewRefiner wraps gen. A nil gen falls back to an identity stub that
// echoes the input scenario back unchanged, for secret-preservation
// tests and offline use.
func NewRefiner(gen Generator) *Refiner {
	if gen == nil {
		gen = stubRefineGenerator{}
	}
	return &Refiner{gen: gen}
}

// Refine sends s to the generator and returns the improved scenario.
func (r *Refiner) Refine(s *scenario.Scenario) (*scenario.Scenario, error) {
	before, err := scenario.Dump(s)
	if err != nil {
		return nil, fmt.Errorf("refine: dumping scenario: %w", err)
	}

	userPrompt := fmt.Sprintf("Current scenario:\n%s", string(before))
	raw, err := r.gen.Generate(refineSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("refine: generation failed: %w", err)
	}

	refined, errs := scenario.Load([]byte(raw))
	if len(errs) > 0 {
		return nil, fmt.Errorf("refine: refined scenario failed validation: %w", errs)
	}

	beforeCount := countSecretFlags(s.Steps)
	afterCount := countSecretFlags(refined.Steps)
	if afterCount < beforeCount {
		return nil, &SecretLost{Before: beforeCount, After: afterCount}
	}
	return refined, nil
}

func countSecretFlags(steps []scenario.StepEntry) int {
	count := 0
	for _, step := range steps {
		if step.IsSection() {
			count += countSecretFlags(step.SectionSteps())
			continue
		}
		count += countSecretFlagsIn(map[string]any(step))
	}
	return count
}

func countSecretFlagsIn(v any) int {
	switch val := v.(type) {
	case map[string]any:
		count := 0
		for k, item := range val {
			if k == "secret" {
				if b, ok := item.(bool); ok && b {
					count++
					continue
				}
			}
			count += countSecretFlagsIn(item)
		}
		return count
	case []any:
		count := 0
		for _, item := range val {
			count += countSecretFlagsIn(item)
		}
		return count
	default:
		return 0
	}
}

// Explainer describes a Scenario in prose.
type Explainer struct {
	gen Generator
}

// NewExplainer wraps gen. A nil gen falls back to a stub that produces
// a short mechanical description from the scenario's title and step
// count, so Explain never returns empty text even offline.
func NewExplainer(gen Generator) *Explainer {
	if gen == nil {
		gen = stubExplainGenerator{}
	}
	return &Explainer{gen: gen}
}

// Explain returns non-empty prose describing s.
func (e *Explainer) Explain(s *scenario.Scenario) (string, error) {
	data, err := scenario.Dump(s)
	if err != nil {
		return "", fmt.Errorf("explain: dumping scenario: %w", err)
	}
	userPrompt := fmt.Sprintf("Explain what this scenario does:\n%s", string(data))
	text, err := e.gen.Generate(explainSystemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("explain: generation failed: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("explain: generator returned empty text")
	}
	return text, nil
}

package author

// stubDraftGenerator returns a minimal valid scenario regardless of
// input, mirroring _StubLlmClient's offline-default role.
type stubDraftGenerator struct{}

func (stubDraftGenerator) Generate(string, string) (string, error) {
	return `title: sample scenario
base_url: http://localhost:3000
vars: {}
artifacts:
  screenshots:
    mode: before_each_step
    format: jpeg
    quality: 70
  trace:
    mode: on_failure
  video:
    mode: on_failure
hooks: {}
steps:
  - goto: http://localhost:3000/
healing: off
`, nil
}

// stubRefineGenerator extracts the "Current scenario:" YAML out of the
// user prompt and echoes it back unchanged, mirroring
// _RefineStubLlmClient's no-op-refinement role in secret-preservation
// tests.
type stubRefineGenerator struct{}

func (stubRefineGenerator) Generate(_ string, userPrompt string) (string, error) {
	const marker = "Current scenario:\n"
	for i := 0; i+len(marker) <= len(userPrompt); i++ {
		if userPrompt[i:i+len(marker)] == marker {
			return userPrompt[i+len(marker):], nil
		}
	}
	return userPrompt, nil
}

// stubExplainGenerator produces a short mechanical description so
// Explain never returns empty text offline.
type stubExplainGenerator struct{}

func (stubExplainGenerator) Generate(string, string) (string, error) {
	return "This scenario runs a sequence of browser automation steps against the configured base URL.", nil
}

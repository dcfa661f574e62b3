package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Headless)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.StepTimeout)
}

func TestStepTimeoutError_Message(t *testing.T) {
	err := &StepTimeoutError{Step: "click", Budget: 5 * time.Second}
	assert.NotEmpty(t, err.Error())
}

func TestFlatten_NestedSections(t *testing.T) {
	entries := []scenario.StepEntry{
		{"goto": "http://x"},
		{
			"section": "login",
			"steps": []any{
				map[string]any{"click": map[string]any{"testId": "submit"}},
			},
		},
	}
	flat := flatten(entries, "")
	require.Len(t, flat, 2)
	assert.Equal(t, "", flat[0].section)
	assert.Equal(t, "login", flat[1].section)
}

func TestFirstStepIsGoto(t *testing.T) {
	assert.True(t, firstStepIsGoto([]scenario.StepEntry{{"goto": "http://x"}}))
	assert.False(t, firstStepIsGoto([]scenario.StepEntry{{"click": map[string]any{"testId": "x"}}}))
	assert.False(t, firstStepIsGoto(nil))
}

func TestScenarioArtifactsDir(t *testing.T) {
	assert.Equal(t, "artifacts", scenarioArtifactsDir("artifacts", ""))
	assert.Equal(t, "artifacts/login", scenarioArtifactsDir("artifacts", "login"))
}

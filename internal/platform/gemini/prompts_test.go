package gemini

import (
	"testing"

	"github.com/mcollier/waypoint-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	t.Run("deepen prompt includes passage", func(t *testing.T) {
		t.Parallel()
		prompt, err := buildPrompt(task.KindDeepen, "The map is not the territory.")
		require.NoError(t, err)
		assert.Contains(t, prompt, "The map is not the territory.")
		assert.Contains(t, prompt, "go deeper")
	})

	t.Run("next step prompt includes passage", func(t *testing.T) {
		t.Parallel()
		prompt, err := buildPrompt(task.KindNextStep, "The map is not the territory.")
		require.NoError(t, err)
		assert.Contains(t, prompt, "The map is not the territory.")
		assert.Contains(t, prompt, "next step")
	})

	t.Run("unknown kind falls back to next step", func(t *testing.T) {
		t.Parallel()
		prompt, err := buildPrompt(task.Kind("mystery"), "passage text")
		require.NoError(t, err)
		assert.Contains(t, prompt, "next step")
	})

	t.Run("empty passage is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := buildPrompt(task.KindDeepen, "")
		assert.ErrorIs(t, err, ErrEmptyPassage)
	})
}

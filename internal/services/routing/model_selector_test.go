package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
)

func TestModelSelector_Resolve(t *testing.T) {
	selector := NewModelSelector(nil)

	tests := []struct {
		name  string
		input string
		want  []Target
	}{
		{
			name:  "Llama 3 maps to Groq",
			input: "Llama 3",
			want:  []Target{{AI: config.AIGroq, Model: config.ModelLlama33Versatile}},
		},
		{
			name:  "Gemini 2.0 maps to Gemini",
			input: "Gemini 2.0",
			want:  []Target{{AI: config.AIGemini, Model: config.ModelGemini20FlashExp}},
		},
		{
			name:  "matching ignores case and spaces",
			input: "  llama 3 ",
			want:  []Target{{AI: config.AIGroq, Model: config.ModelLlama33Versatile}},
		},
		{
			name:  "Auto falls back from Gemini to Groq",
			input: "Auto",
			want: []Target{
				{AI: config.AIGemini, Model: config.ModelGemini20FlashExp},
				{AI: config.AIGroq, Model: config.ModelLlama33Versatile},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := selector.Resolve(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, route.Targets)
		})
	}

	t.Run("unknown names fail", func(t *testing.T) {
		for _, name := range []string{"", "GPT-4", "Llama3", "gemini-2.0-flash-exp"} {
			_, err := selector.Resolve(name)
			assert.ErrorIs(t, err, errors.ErrUnknownModel, name)
		}
	})
}

func TestModelSelector_AutoUsesConfiguredModels(t *testing.T) {
	cfg := config.Default()
	cfg.SetProvider(config.AIGroq, config.AIProviderConfig{Model: config.ModelLlama31Instant})

	selector := NewModelSelector(cfg)

	auto, err := selector.Resolve(ModelAuto)
	require.NoError(t, err)
	assert.Equal(t, config.ModelLlama31Instant, auto.Targets[1].Model)

	fixed, err := selector.Resolve(ModelLlama3)
	require.NoError(t, err)
	assert.Equal(t, config.ModelLlama33Versatile, fixed.Targets[0].Model, "display names stay fixed")
}

func TestModelSelector_Names(t *testing.T) {
	selector := NewModelSelector(nil)

	assert.Equal(t, []string{"Auto", "Gemini 2.0", "Llama 3"}, selector.Names())
	assert.Len(t, selector.Routes(), 3)
	assert.True(t, selector.Routes()[0].IsFallback())
	assert.Equal(t, "always uses groq/llama-3.3-70b-versatile", selector.GetRationale("Llama 3"))
	assert.Empty(t, selector.GetRationale("nope"))
}

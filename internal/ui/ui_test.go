package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return trans
}

func TestPrintValidationReport(t *testing.T) {
	trans := newTranslations(t)

	t.Run("complete document", func(t *testing.T) {
		var buf bytes.Buffer
		PrintValidationReport(&buf, models.ValidationReport{
			HasDiagram: true, DiagramCount: 1, HasBadges: true, BadgeCount: 6, BadgesRequested: true,
		}, trans)

		assert.Contains(t, buf.String(), "Architecture diagram found")
		assert.Contains(t, buf.String(), "6 badges found")
	})

	t.Run("missing elements", func(t *testing.T) {
		var buf bytes.Buffer
		PrintValidationReport(&buf, models.ValidationReport{BadgesRequested: true}, trans)

		assert.Contains(t, buf.String(), "No architecture diagram")
		assert.Contains(t, buf.String(), "No technology badges")
	})

	t.Run("badges not requested", func(t *testing.T) {
		var buf bytes.Buffer
		PrintValidationReport(&buf, models.ValidationReport{HasDiagram: true, DiagramCount: 2}, trans)

		assert.Contains(t, buf.String(), "2 architecture diagrams found")
		assert.Contains(t, buf.String(), "Badges not requested")
	})
}

func TestPrintTokenUsage(t *testing.T) {
	trans := newTranslations(t)

	t.Run("prints tokens and cost", func(t *testing.T) {
		var buf bytes.Buffer
		PrintTokenUsage(&buf, &models.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150, CostUSD: 0.0123, DurationMs: 800}, trans)

		out := buf.String()
		assert.Contains(t, out, "input 100")
		assert.Contains(t, out, "output 50")
		assert.Contains(t, out, "total 150")
		assert.Contains(t, out, "$0.0123 USD")
		assert.Contains(t, out, "800ms")
	})

	t.Run("cache hit", func(t *testing.T) {
		var buf bytes.Buffer
		PrintTokenUsage(&buf, &models.TokenUsage{CacheHit: true}, trans)

		assert.Contains(t, buf.String(), "Served from cache")
		assert.NotContains(t, buf.String(), "input")
	})

	t.Run("nil usage prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		PrintTokenUsage(&buf, nil, trans)

		assert.Empty(t, buf.String())
	})
}

func TestPrintSummary(t *testing.T) {
	trans := newTranslations(t)
	var buf bytes.Buffer

	PrintSummary(&buf, "Today", cost.Summary{Generations: 3, CacheHits: 1, TokensInput: 10, TokensOutput: 20, CostUSD: 0.5}, trans)

	out := buf.String()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Generations: 3")
	assert.Contains(t, out, "$0.5000 USD")
}

func TestHandleAppError(t *testing.T) {
	trans := newTranslations(t)

	t.Run("app error with suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrMissingCredential.WithError(errors.New("GROQ_API_KEY empty"))

		HandleAppError(&buf, err, trans)

		out := buf.String()
		assert.Contains(t, out, "MISSING_CREDENTIAL")
		assert.Contains(t, out, "Details: GROQ_API_KEY empty")
		assert.Contains(t, out, "Try:")
		assert.Contains(t, out, "GEMINI_API_KEY")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"))

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("nil error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil)

		assert.Empty(t, buf.String())
	})
}

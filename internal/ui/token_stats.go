package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
)

func PrintTokenUsage(w io.Writer, usage *models.TokenUsage, t *i18n.Translations) {
	if usage == nil {
		return
	}
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	if usage.CacheHit {
		_, _ = green.Fprintf(w, "✓ %s\n", t.GetMessage("ui.cache_hit", 0, nil))
		return
	}

	_, _ = cyan.Fprint(w, "📊 ")
	_, _ = fmt.Fprintf(w, "%s: ", t.GetMessage("ui.token_usage", 0, nil))
	_, _ = fmt.Fprintf(w, "%s %d | ", t.GetMessage("ui.input", 0, nil), usage.InputTokens)
	_, _ = fmt.Fprintf(w, "%s %d | ", t.GetMessage("ui.output", 0, nil), usage.OutputTokens)
	_, _ = fmt.Fprintf(w, "%s %d\n", t.GetMessage("ui.total", 0, nil), usage.TotalTokens)
	if usage.CostUSD > 0 {
		_, _ = yellow.Fprint(w, "💰 ")
		_, _ = fmt.Fprintf(w, "%s: ", t.GetMessage("ui.cost", 0, nil))
		_, _ = yellow.Fprintf(w, "$%.4f USD\n", usage.CostUSD)
	}
	if usage.DurationMs > 0 {
		_, _ = fmt.Fprintf(w, "⏱️  %s: %dms\n", t.GetMessage("ui.duration", 0, nil), usage.DurationMs)
	}
}

// PrintValidationReport lists which structural elements were found.
func PrintValidationReport(w io.Writer, report models.ValidationReport, t *i18n.Translations) {
	_, _ = fmt.Fprintf(w, "%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("ui.validation", 0, nil)))

	if report.HasDiagram {
		PrintSuccess(w, t.GetMessage("ui.diagram_found", report.DiagramCount, map[string]interface{}{"Count": report.DiagramCount}))
	} else {
		PrintWarning(w, t.GetMessage("ui.diagram_missing", 0, nil))
	}

	switch {
	case report.HasBadges:
		PrintSuccess(w, t.GetMessage("ui.badges_found", report.BadgeCount, map[string]interface{}{"Count": report.BadgeCount}))
	case report.BadgesRequested:
		PrintWarning(w, t.GetMessage("ui.badges_missing", 0, nil))
	default:
		PrintInfo(w, t.GetMessage("ui.badges_not_requested", 0, nil))
	}
}

// PrintSummary prints one period of the activity history.
func PrintSummary(w io.Writer, title string, s cost.Summary, t *i18n.Translations) {
	_, _ = fmt.Fprintf(w, "%s %s\n", StatsEmoji, Accent.Sprint(title))
	PrintKeyValue(w, t.GetMessage("stats.generations", 0, nil), fmt.Sprintf("%d", s.Generations))
	PrintKeyValue(w, t.GetMessage("stats.cache_hits", 0, nil), fmt.Sprintf("%d", s.CacheHits))
	PrintKeyValue(w, t.GetMessage("ui.token_usage", 0, nil),
		fmt.Sprintf("%s %d | %s %d", t.GetMessage("ui.input", 0, nil), s.TokensInput, t.GetMessage("ui.output", 0, nil), s.TokensOutput))
	PrintKeyValue(w, t.GetMessage("ui.cost", 0, nil), fmt.Sprintf("$%.4f USD", s.CostUSD))
}

// Package validation inspects generated README text for its required
// structural elements. Deficiencies are reported, never returned as errors.
package validation

import (
	"strings"

	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/regex"
)

// BadgeHost is the badge-service host counted as one badge per occurrence.
const BadgeHost = "img.shields.io"

// Validate inspects text. badgesRequested is true when the prompt asked for
// badges, i.e. at least one technology was recognized.
func Validate(text string, badgesRequested bool) models.ValidationReport {
	diagrams := DiagramBlocks(text)
	badges := strings.Count(text, BadgeHost)

	report := models.ValidationReport{
		HasDiagram:      len(diagrams) > 0,
		DiagramCount:    len(diagrams),
		HasBadges:       badges > 0,
		BadgeCount:      badges,
		BadgesRequested: badgesRequested,
	}

	if !report.HasDiagram {
		report.Deficiencies = append(report.Deficiencies, models.DeficiencyMissingDiagram)
	}
	if badgesRequested && !report.HasBadges {
		report.Deficiencies = append(report.Deficiencies, models.DeficiencyMissingBadges)
	}
	return report
}

// Normalize trims text and unwraps a document the model fenced as a whole
// in ```markdown.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if m := regex.OuterMarkdownFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// DiagramBlocks returns the body of every mermaid block in text.
func DiagramBlocks(text string) []string {
	matches := regex.MermaidBlock.FindAllStringSubmatch(text, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

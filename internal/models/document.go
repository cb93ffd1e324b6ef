package models

// Deficiency is a structural element the generated README is missing.
type Deficiency string

const (
	DeficiencyMissingDiagram Deficiency = "MissingDiagram"
	DeficiencyMissingBadges  Deficiency = "MissingBadges"
)

// ValidationReport is the diagnostic result of inspecting generated text.
type ValidationReport struct {
	HasDiagram      bool         `json:"has_diagram"`
	DiagramCount    int          `json:"diagram_count"`
	HasBadges       bool         `json:"has_badges"`
	BadgeCount      int          `json:"badge_count"`
	BadgesRequested bool         `json:"badges_requested"`
	Deficiencies    []Deficiency `json:"deficiencies,omitempty"`
}

// Accepted reports whether no deficiency was recorded.
func (r ValidationReport) Accepted() bool {
	return len(r.Deficiencies) == 0
}

// GeneratedDocument is the accepted README plus its validation flags.
// Ownership passes to the caller on return.
type GeneratedDocument struct {
	Markdown  string           `json:"markdown"`
	Report    ValidationReport `json:"report"`
	Provider  string           `json:"provider"`
	Model     string           `json:"model"`
	Attempts  int              `json:"attempts"`
	RequestID string           `json:"request_id,omitempty"`
	Usage     *TokenUsage      `json:"usage,omitempty"`
}

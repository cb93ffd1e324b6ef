package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
)

// DefaultTopLanguages is how many languages the prompt lists.
const DefaultTopLanguages = 5

// DefaultSections are the optional README sections used when none are requested.
var DefaultSections = []string{"Features", "Installation", "Usage", "Contributing", "License"}

const fence = "```"

const readmePromptTemplate = `# Task
{{.Register.Role}} Write a complete README.md for the repository "{{.Name}}".
{{.Register.Style}}

# Repository
- Name: {{.Name}}
{{- if .Owner}}
- Owner: {{.Owner}}
{{- end}}
- Description: {{if .Description}}{{.Description}}{{else}}(none provided, infer it from the stack and structure){{end}}
{{- if .URL}}
- URL: {{.URL}}
{{- end}}
- Stars: {{.Stars}} | Forks: {{.Forks}}{{if .DefaultBranch}} | Default branch: {{.DefaultBranch}}{{end}}

# Languages (top {{len .Languages}} by share)
{{- range .Languages}}
- {{.Name}}: {{printf "%.1f" .Percent}}%
{{- else}}
- (no language data)
{{- end}}

# Detected Stack
{{- range .DetectedStack}}
- {{.}}
{{- else}}
- (none detected)
{{- end}}

# Project Structure
- Files: {{.Tree.TotalFiles}} | Directories: {{.Tree.TotalDirs}} | Max depth: {{.Tree.MaxDepth}}
{{- range .Tree.TopLevelStructure}}
- {{.}}
{{- end}}
{{- if .PackageManifests}}

# Package Manifests
{{- range .PackageManifests}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Hints}}

# Setup Hints
{{- range .Hints}}
- {{.}}
{{- end}}
{{- end}}

# Required Structure
Produce the README in Markdown with these sections, in this order:
- Title: "# {{.Name}}"
- A short description paragraph
- A badges row
- "## Tech Stack"
- "## Architecture"
{{- range .Sections}}
- "## {{.}}"
{{- end}}

# Technology Badges
{{- if .Badges}}
Render every technology as a shields.io badge image, never as emoji or plain text.
Badge URL template: https://img.shields.io/badge/<Tech>-<color>?style=for-the-badge&logo=<slug>&logoColor=white
Use exactly these badges in the badges row and in the Tech Stack section:
{{- range .Badges}}
- {{.Markdown}}
{{- end}}
{{- else}}
No technologies were recognized, so leave the badges row out and describe the stack in prose.
{{- end}}

# Architecture Diagram
In the Architecture section include exactly one fenced Mermaid block that opens with ` + fence + `mermaid on its own line and closes with ` + fence + `.
The diagram must show how the main components relate to each other{{if .StackList}} ({{.StackList}}){{end}}, for example:
` + fence + `mermaid
graph TD
    Client --> API
    API --> Database
` + fence + `
Do not add any other Mermaid block.

# Output
{{.Register.Closing}}
Return only the Markdown document. Do not wrap it in a code fence and do not add commentary before or after it.
`

// ToneRegister is the instructional wording that changes with the tone.
type ToneRegister struct {
	Role    string
	Style   string
	Closing string
}

var toneRegisters = map[models.Tone]ToneRegister{
	models.ToneProfessional: {
		Role:    "Act as a senior technical writer.",
		Style:   "Use a clear, formal voice suitable for a production open-source project.",
		Closing: "Keep the wording concise and professional.",
	},
	models.ToneCasual: {
		Role:    "You're a friendly developer who loves good docs.",
		Style:   "Keep it relaxed and welcoming and talk to the reader directly. A little humour is fine.",
		Closing: "Make it feel approachable, like a note from the maintainers.",
	},
	models.ToneTechnical: {
		Role:    "Act as a software architect documenting a system for other engineers.",
		Style:   "Be precise and dense. Prefer exact names, commands and architectural detail over marketing language.",
		Closing: "Favour accuracy over friendliness.",
	},
}

// PromptData holds the parameters for template rendering
type PromptData struct {
	Name             string
	Owner            string
	Description      string
	URL              string
	DefaultBranch    string
	Stars            int
	Forks            int
	Languages        models.Languages
	DetectedStack    []string
	StackList        string
	PackageManifests []string
	Hints            []string
	Tree             models.FileTreeSummary
	Badges           []Badge
	Sections         []string
	Register         ToneRegister
}

type promptOptions struct {
	sections     []string
	topLanguages int
}

// PromptOption customizes BuildPrompt.
type PromptOption func(*promptOptions)

// WithSections replaces the default optional sections. Blank and duplicate
// names are dropped, as are the always-present Tech Stack and Architecture.
func WithSections(sections []string) PromptOption {
	return func(o *promptOptions) {
		o.sections = sections
	}
}

func WithTopLanguages(n int) PromptOption {
	return func(o *promptOptions) {
		if n > 0 {
			o.topLanguages = n
		}
	}
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// BuildPrompt turns an analysis into the README prompt. It is pure and only
// fails on input-shape violations.
func BuildPrompt(analysis *models.AnalysisResult, tone models.Tone, opts ...PromptOption) (string, error) {
	if analysis == nil {
		return "", errors.ErrInvalidInput.WithMessage("analysis is required")
	}
	name := strings.TrimSpace(analysis.RepoMeta.Name)
	if name == "" {
		return "", errors.ErrInvalidInput.WithMessage("repository name cannot be empty")
	}

	parsed, ok := models.ParseTone(string(tone))
	if !ok {
		return "", errors.ErrInvalidInput.
			WithMessage(fmt.Sprintf("unsupported tone %q", tone)).
			WithContext("supported", models.SupportedTones())
	}

	o := promptOptions{topLanguages: DefaultTopLanguages}
	for _, opt := range opts {
		opt(&o)
	}

	meta := analysis.RepoMeta
	data := PromptData{
		Name:             name,
		Owner:            meta.Owner,
		Description:      strings.TrimSpace(meta.Description),
		URL:              meta.URL,
		DefaultBranch:    meta.DefaultBranch,
		Stars:            meta.Stars,
		Forks:            meta.Forks,
		Languages:        analysis.Languages.Top(o.topLanguages),
		DetectedStack:    analysis.DetectedStack,
		StackList:        strings.Join(analysis.DetectedStack, ", "),
		PackageManifests: analysis.PackageManifests,
		Hints:            analysis.Hints,
		Tree:             analysis.FileTreeSummary,
		Badges:           BadgesFor(analysis.DetectedStack),
		Sections:         normalizeSections(o.sections),
		Register:         toneRegisters[parsed],
	}

	prompt, err := RenderPrompt("readme", readmePromptTemplate, data)
	if err != nil {
		return "", errors.NewAppError(errors.TypeInternal, "failed to render prompt", err)
	}
	return prompt, nil
}

// BadgesRequested reports whether the prompt for analysis asks for badges.
func BadgesRequested(analysis *models.AnalysisResult) bool {
	return analysis != nil && len(BadgesFor(analysis.DetectedStack)) > 0
}

func normalizeSections(sections []string) []string {
	if len(sections) == 0 {
		sections = DefaultSections
	}

	seen := map[string]bool{"tech stack": true, "architecture": true}
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "#"))
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

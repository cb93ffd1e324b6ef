package models

import "strings"

// Tone selects the register of the instructional language in the prompt.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneTechnical    Tone = "technical"
)

// SupportedTones returns the closed set of tones in display order.
func SupportedTones() []Tone {
	return []Tone{ToneProfessional, ToneCasual, ToneTechnical}
}

// ParseTone normalizes s and reports whether it names a supported tone.
func ParseTone(s string) (Tone, bool) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range SupportedTones() {
		if t == supported {
			return t, true
		}
	}
	return "", false
}

// GenerationRequest is built per call and discarded once the call returns.
type GenerationRequest struct {
	Analysis *AnalysisResult
	Tone     Tone
	// Model is a display name from the model catalogue, e.g. "Llama 3".
	Model string
	// Sections lists optional README sections; empty means the default set.
	Sections []string
}

// GenerationOptions are the per-call sampling settings handed to a provider.
type GenerationOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// GeneratedText is the trimmed text extracted from a provider response.
type GeneratedText struct {
	Text  string
	Usage *TokenUsage
}

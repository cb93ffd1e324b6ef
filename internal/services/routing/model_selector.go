package routing

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
)

// Model display names accepted by GenerationRequest.Model.
const (
	ModelLlama3   = "Llama 3"
	ModelGemini20 = "Gemini 2.0"
	ModelAuto     = "Auto"
)

const (
	autoRationale  = "tries each configured provider in order until one succeeds"
	fixedRationale = "always uses %s/%s"
)

// Target is one provider/model pairing.
type Target struct {
	AI    config.AI
	Model config.Model
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s", t.AI, t.Model)
}

// Route is the ordered list of targets behind a model display name.
// Fixed models have exactly one target.
type Route struct {
	Name    string
	Targets []Target
}

// IsFallback reports whether the route may move on to another provider.
func (r Route) IsFallback() bool {
	return len(r.Targets) > 1
}

// ModelSelector is the closed catalogue of model display names.
type ModelSelector struct {
	routes map[string]Route
	order  []string
}

// NewModelSelector builds the catalogue. Fixed names always map to the same
// model; "Auto" follows the per-provider model set in cfg.
func NewModelSelector(cfg *config.Config) *ModelSelector {
	modelFor := config.DefaultModelForAI
	if cfg != nil {
		modelFor = cfg.ModelFor
	}

	routes := []Route{
		{Name: ModelAuto, Targets: []Target{
			{AI: config.AIGemini, Model: modelFor(config.AIGemini)},
			{AI: config.AIGroq, Model: modelFor(config.AIGroq)},
		}},
		{Name: ModelGemini20, Targets: []Target{{AI: config.AIGemini, Model: config.ModelGemini20FlashExp}}},
		{Name: ModelLlama3, Targets: []Target{{AI: config.AIGroq, Model: config.ModelLlama33Versatile}}},
	}

	m := &ModelSelector{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		m.routes[normalize(r.Name)] = r
		m.order = append(m.order, r.Name)
	}
	return m
}

// Resolve returns the route for a display name. Matching ignores case and
// surrounding spaces.
func (m *ModelSelector) Resolve(name string) (Route, error) {
	r, ok := m.routes[normalize(name)]
	if !ok {
		return Route{}, errors.ErrUnknownModel.
			WithMessage(fmt.Sprintf("unknown model %q", name)).
			WithContext("supported", m.Names())
	}
	return r, nil
}

// Names lists the display names in catalogue order.
func (m *ModelSelector) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Routes lists every route in catalogue order.
func (m *ModelSelector) Routes() []Route {
	out := make([]Route, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.routes[normalize(name)])
	}
	return out
}

// GetRationale explains how a display name picks its provider.
func (m *ModelSelector) GetRationale(name string) string {
	r, err := m.Resolve(name)
	if err != nil {
		return ""
	}
	if r.IsFallback() {
		return autoRationale
	}
	return fmt.Sprintf(fixedRationale, r.Targets[0].AI, r.Targets[0].Model)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package cost

import (
	"fmt"
	"sort"
	"strings"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

type ProviderPricing map[string]map[string]PricingTable

// https://ai.google.dev/gemini-api/docs/pricing
// https://groq.com/pricing
var defaultPricing = ProviderPricing{
	"gemini": {
		"gemini-2.0-flash-exp": {InputPricePerMillion: 0, OutputPricePerMillion: 0},
		"gemini-2.0-flash":     {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
		"gemini-2.5-flash":     {InputPricePerMillion: 0.30, OutputPricePerMillion: 2.50},
	},
	"groq": {
		"llama-3.3-70b-versatile": {InputPricePerMillion: 0.59, OutputPricePerMillion: 0.79},
		"llama-3.1-8b-instant":    {InputPricePerMillion: 0.05, OutputPricePerMillion: 0.08},
	},
}

// Calculator holds its own copy of the pricing table, so AddPricing never
// affects other calculators.
type Calculator struct {
	pricing ProviderPricing
}

func NewCalculator() *Calculator {
	p := make(ProviderPricing, len(defaultPricing))
	for provider, models := range defaultPricing {
		p[provider] = make(map[string]PricingTable, len(models))
		for model, table := range models {
			p[provider][model] = table
		}
	}
	return &Calculator{pricing: p}
}

// EstimateCost calculates the estimated cost based on provider, model, and tokens
func (c *Calculator) EstimateCost(provider, model string, inputTokens, outputTokens int) float64 {
	modelPricing, ok := c.lookup(strings.ToLower(provider), strings.ToLower(model))
	if !ok {
		return 0
	}

	inputCost := (float64(inputTokens) / 1_000_000) * modelPricing.InputPricePerMillion
	outputCost := (float64(outputTokens) / 1_000_000) * modelPricing.OutputPricePerMillion

	return inputCost + outputCost
}

// lookup tries an exact match first, then the longest known model id that
// prefixes model (e.g. "llama-3.3-70b-versatile-0125").
func (c *Calculator) lookup(provider, model string) (PricingTable, bool) {
	providerPricing, exists := c.pricing[provider]
	if !exists {
		return PricingTable{}, false
	}
	if table, ok := providerPricing[model]; ok {
		return table, true
	}

	names := make([]string, 0, len(providerPricing))
	for name := range providerPricing {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		if strings.HasPrefix(model, name) {
			return providerPricing[name], true
		}
	}
	return PricingTable{}, false
}

// GetPricing returns the pricing table for a provider and model
func (c *Calculator) GetPricing(provider, model string) (PricingTable, error) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	providerPricing, exists := c.pricing[provider]
	if !exists {
		return PricingTable{}, fmt.Errorf("provider %s not found", provider)
	}

	modelPricing, exists := providerPricing[model]
	if !exists {
		return PricingTable{}, fmt.Errorf("model %s not found for provider %s", model, provider)
	}

	return modelPricing, nil
}

// AddPricing allows adding pricing dynamically (useful for testing or new models)
func (c *Calculator) AddPricing(provider, model string, table PricingTable) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	if _, exists := c.pricing[provider]; !exists {
		c.pricing[provider] = make(map[string]PricingTable)
	}
	c.pricing[provider][model] = table
}

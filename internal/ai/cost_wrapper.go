package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
)

// ActivityRecorder persists one record per successful provider call.
type ActivityRecorder interface {
	SaveActivity(record cost.ActivityRecord) error
}

// CostAwareGenerator decorates a TextGenerator with usage accounting: the
// model, the estimated cost and the call duration are filled into the
// returned usage, and the call is recorded when a recorder is set.
type CostAwareGenerator struct {
	ports.TextGenerator
	calculator *cost.Calculator
	recorder   ActivityRecorder
	command    string
	now        func() time.Time
}

func NewCostAwareGenerator(gen ports.TextGenerator, calculator *cost.Calculator, recorder ActivityRecorder, command string) *CostAwareGenerator {
	if calculator == nil {
		calculator = cost.NewCalculator()
	}
	return &CostAwareGenerator{
		TextGenerator: gen,
		calculator:    calculator,
		recorder:      recorder,
		command:       command,
		now:           time.Now,
	}
}

func (w *CostAwareGenerator) Generate(ctx context.Context, prompt string, opts models.GenerationOptions) (*models.GeneratedText, error) {
	start := w.now()

	out, err := w.TextGenerator.Generate(ctx, prompt, opts)
	if err != nil || out == nil {
		return out, err
	}

	providerName := w.GetProviderName()
	modelName := w.GetModelName()

	usage := out.Usage
	if usage == nil {
		usage = &models.TokenUsage{}
	}
	usage.Model = modelName
	usage.CostUSD = w.calculator.EstimateCost(providerName, modelName, usage.InputTokens, usage.OutputTokens)
	usage.DurationMs = w.now().Sub(start).Milliseconds()
	out.Usage = usage

	if w.recorder != nil {
		record := cost.ActivityRecord{
			Timestamp:    w.now(),
			Command:      w.command,
			Provider:     providerName,
			Model:        modelName,
			TokensInput:  usage.InputTokens,
			TokensOutput: usage.OutputTokens,
			CostUSD:      usage.CostUSD,
			DurationMs:   usage.DurationMs,
		}
		if err := w.recorder.SaveActivity(record); err != nil {
			logger.Warn(ctx, "failed to record activity", "error", err)
		}
	}

	return out, nil
}

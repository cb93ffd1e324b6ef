package models

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/thomas-vilte/readmegen/internal/ai/registry"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/services/routing"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

type ModelsCommand struct {
	selector *routing.ModelSelector
	registry *registry.AIProviderRegistry
}

func NewModelsCommand(selector *routing.ModelSelector, reg *registry.AIProviderRegistry) *ModelsCommand {
	return &ModelsCommand{selector: selector, registry: reg}
}

func (c *ModelsCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: t.GetMessage("models.usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}

			configured := c.registry.Configured(cfg)
			ready := color.New(color.FgGreen)
			missing := color.New(color.FgYellow)

			ui.PrintSectionBanner(out, t.GetMessage("models.header", 0, nil))
			for _, route := range c.selector.Routes() {
				status := missing.Sprint(t.GetMessage("models.not_configured", 0, nil))
				for _, target := range route.Targets {
					if slices.Contains(configured, target.AI) {
						status = ready.Sprint(t.GetMessage("models.configured", 0, nil))
						break
					}
				}
				_, _ = fmt.Fprintf(out, "%s  [%s]\n", ui.Accent.Sprint(route.Name), status)
				_, _ = fmt.Fprintf(out, "   %s\n", ui.Dim.Sprint(c.selector.GetRationale(route.Name)))
			}
			return nil
		},
	}
}

package stats

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

// Provider gives access to the generation history.
type Provider interface {
	GetCostManager() (*cost.Manager, error)
}

type StatsCommand struct {
	provider Provider
}

func NewStatsCommand(provider Provider) *StatsCommand {
	return &StatsCommand{provider: provider}
}

func (c *StatsCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "stats",
		Aliases: []string{"cost"},
		Usage:   t.GetMessage("stats.usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := c.provider.GetCostManager()
			if err != nil {
				return fmt.Errorf("error opening history: %w", err)
			}

			today, err := manager.Today()
			if err != nil {
				return err
			}
			month, err := manager.ThisMonth()
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			ui.PrintSummary(out, t.GetMessage("stats.today", 0, nil), today, t)
			_, _ = fmt.Fprintln(out)
			ui.PrintSummary(out, t.GetMessage("stats.month", 0, nil), month, t)
			return nil
		},
	}
}

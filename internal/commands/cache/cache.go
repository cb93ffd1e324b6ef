package cache

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/readmegen/internal/cache"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

// Provider gives access to the response cache.
type Provider interface {
	GetCache() (*cache.Cache, error)
}

type CacheCommand struct {
	provider Provider
}

func NewCacheCommand(provider Provider) *CacheCommand {
	return &CacheCommand{provider: provider}
}

func (c *CacheCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: t.GetMessage("flag.all", 0, nil),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cacheService, err := c.provider.GetCache()
					if err != nil {
						return fmt.Errorf("error opening cache: %w", err)
					}

					out := cmd.Root().Writer
					if out == nil {
						out = os.Stdout
					}

					if cmd.Bool("all") {
						if err := cacheService.Clean(); err != nil {
							return fmt.Errorf("error cleaning cache: %w", err)
						}
						ui.PrintSuccess(out, t.GetMessage("cache.cleared", 0, nil))
						return nil
					}

					removed, err := cacheService.CleanExpired()
					if err != nil {
						return fmt.Errorf("error cleaning cache: %w", err)
					}
					ui.PrintSuccess(out, t.GetMessage("cache.cleaned", removed, map[string]interface{}{"Count": removed}))
					return nil
				},
			},
		},
	}
}

package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomas-vilte/readmegen/internal/commands/completion_helper"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/di"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/server"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

type ServeCommand struct {
	container *di.Container
}

func NewServeCommand(container *di.Container) *ServeCommand {
	return &ServeCommand{container: container}
}

func (c *ServeCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "serve",
		Usage:         t.GetMessage("serve.usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   t.GetMessage("flag.addr", 0, nil),
				Value:   cfg.ServerAddr,
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: t.GetMessage("flag.no_cache", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gen, err := c.container.NewReadmeGenerator(di.ReadmeOptions{
				Command:  "serve",
				UseCache: !cmd.Bool("no-cache"),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := cmd.String("addr")
			srv := server.NewServer(gen, c.container.GetModelSelector(), server.Defaults{
				Model: cfg.DefaultModel,
				Tone:  cfg.DefaultTone,
			}, generationBudget(cfg))

			ui.PrintInfo(os.Stderr, t.GetMessage("serve.listening", 0, map[string]interface{}{"Addr": addr}))
			return srv.ListenAndServe(ctx, addr)
		},
	}
}

// generationBudget bounds one HTTP generation: every attempt on both Auto
// providers, each followed by the retry delay.
func generationBudget(cfg *config.Config) time.Duration {
	attempts := 1 + cfg.MaxRetries + cfg.MalformedRetries
	perProvider := time.Duration(attempts) * (cfg.RequestTimeout.Duration + cfg.RetryDelay.Duration)
	return 2 * perProvider
}

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/readmegen/internal/commands/completion_helper"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "init",
		Usage:         t.GetMessage("config.init_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: t.GetMessage("flag.config", 0, nil),
				Value: cfg.PathFile,
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag.force", 0, nil),
			},
		},
		Action: initConfigAction(t),
	}
}

func initConfigAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		path := command.String("path")
		if path == "" {
			return fmt.Errorf("config file path is not set")
		}

		if _, err := os.Stat(path); err == nil && !command.Bool("force") {
			return fmt.Errorf("%s", t.GetMessage("config.exists", 0, map[string]interface{}{"Path": path}))
		}

		fresh := config.Default()
		fresh.PathFile = path
		if err := config.SaveConfig(fresh); err != nil {
			return err
		}

		out := command.Root().ErrWriter
		if out == nil {
			out = os.Stderr
		}
		ui.PrintSuccess(out, t.GetMessage("config.created", 0, map[string]interface{}{"Path": path}))
		return nil
	}
}

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			out := command.Root().Writer
			if out == nil {
				out = os.Stdout
			}

			ui.PrintSectionBanner(out, t.GetMessage("config.current", 0, nil))
			ui.PrintKeyValue(out, "file", cfg.PathFile)
			ui.PrintKeyValue(out, "language", cfg.Language)
			ui.PrintKeyValue(out, "default_model", cfg.DefaultModel)
			ui.PrintKeyValue(out, "default_tone", cfg.DefaultTone)
			ui.PrintKeyValue(out, "temperature", fmt.Sprintf("%.2f", cfg.Temperature))
			ui.PrintKeyValue(out, "max_output_tokens", fmt.Sprintf("%d", cfg.MaxOutputTokens))
			ui.PrintKeyValue(out, "max_retries", fmt.Sprintf("%d", cfg.MaxRetries))
			ui.PrintKeyValue(out, "malformed_retries", fmt.Sprintf("%d", cfg.MalformedRetries))
			ui.PrintKeyValue(out, "retry_delay", cfg.RetryDelay.String())
			ui.PrintKeyValue(out, "request_timeout", cfg.RequestTimeout.String())
			ui.PrintKeyValue(out, "cache_ttl", cfg.CacheTTL.String())
			ui.PrintKeyValue(out, "server_addr", cfg.ServerAddr)
			ui.PrintKeyValue(out, "batch_concurrency", fmt.Sprintf("%d", cfg.BatchConcurrency))

			for _, ai := range config.SupportedAIs() {
				state := t.GetMessage("config.key_unset", 0, nil)
				if cfg.APIKey(ai) != "" {
					state = t.GetMessage("config.key_set", 0, nil)
				}
				ui.PrintKeyValue(out, string(ai), fmt.Sprintf("%s (%s: %s)", cfg.ModelFor(ai), config.APIKeyEnvVar(ai), state))
			}
			return nil
		},
	}
}

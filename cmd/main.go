package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/thomas-vilte/readmegen/internal/ai/gemini"
	"github.com/thomas-vilte/readmegen/internal/ai/groq"
	"github.com/thomas-vilte/readmegen/internal/cli/registry"
	"github.com/thomas-vilte/readmegen/internal/commands/cache"
	configcmd "github.com/thomas-vilte/readmegen/internal/commands/config"
	"github.com/thomas-vilte/readmegen/internal/commands/generate"
	"github.com/thomas-vilte/readmegen/internal/commands/models"
	"github.com/thomas-vilte/readmegen/internal/commands/serve"
	"github.com/thomas-vilte/readmegen/internal/commands/stats"
	cfg "github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/di"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/thomas-vilte/readmegen/internal/version"
	"github.com/urfave/cli/v3"
)

const configEnvVar = "READMEGEN_CONFIG"

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting readmegen: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	configPath := os.Getenv(configEnvVar)
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("could not get the user home directory: %w", err)
		}
		configPath = homeDir
	}

	cfgApp, err := cfg.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.LoadDotEnv(".env", filepath.Join(filepath.Dir(cfgApp.PathFile), ".env")); err != nil {
		log.Printf("Warning: %v", err)
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	container := di.NewContainer(cfgApp, translations, "")

	if err := container.RegisterAIProvider(gemini.NewProviderFactory()); err != nil {
		log.Printf("Warning: could not register the Gemini provider: %v", err)
	}

	if err := container.RegisterAIProvider(groq.NewProviderFactory()); err != nil {
		log.Printf("Warning: could not register the Groq provider: %v", err)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"generate", generate.NewGenerateCommand(container)},
		{"batch", generate.NewBatchCommand(container)},
		{"models", models.NewModelsCommand(container.GetModelSelector(), container.GetAIRegistry())},
		{"serve", serve.NewServeCommand(container)},
		{"cache", cache.NewCacheCommand(container)},
		{"config", configcmd.NewConfigCommandFactory()},
		{"stats", stats.NewStatsCommand(container)},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, fmt.Errorf("error registering the '%s' command: %w", f.name, err)
		}
	}

	return &cli.Command{
		Name:    "readmegen",
		Usage:   translations.GetMessage("app.usage", 0, nil),
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag.debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   translations.GetMessage("flag.verbose", 0, nil),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: translations.GetMessage("flag.log_format", 0, nil),
				Value: string(logger.FormatPretty),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(os.Stderr, logger.Format(cmd.String("log-format")), cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, translations, nil
}

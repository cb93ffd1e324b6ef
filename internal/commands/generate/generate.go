package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomas-vilte/readmegen/internal/analysis"
	"github.com/thomas-vilte/readmegen/internal/commands/completion_helper"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/di"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/services"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
)

// ReadmeFactory builds a generator per command run. *di.Container
// satisfies it.
type ReadmeFactory interface {
	NewReadmeGenerator(opts di.ReadmeOptions) (ports.ReadmeGenerator, error)
}

type GenerateCommand struct {
	factory ReadmeFactory
}

func NewGenerateCommand(factory ReadmeFactory) *GenerateCommand {
	return &GenerateCommand{factory: factory}
}

func (c *GenerateCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "generate",
		Aliases:       []string{"gen"},
		Usage:         t.GetMessage("generate.usage", 0, nil),
		ArgsUsage:     "<analysis.json|analysis.yaml>",
		ShellComplete: completion_helper.AnalysisFileComplete,
		Flags: append(requestFlags(t, cfg),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   t.GetMessage("flag.output", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flag.json", 0, nil),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, cmd, t)
		},
	}
}

func (c *GenerateCommand) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.ErrInvalidInput.WithMessage(t.GetMessage("generate.missing_analysis", 0, nil))
	}

	result, err := analysis.LoadFile(path)
	if err != nil {
		return err
	}

	out, errOut := writers(cmd)
	req := requestFrom(cmd, result)

	spinner := ui.NewSmartSpinner(t.GetMessage("generate.in_progress", 0, map[string]interface{}{"Model": req.Model}))
	observer := services.StateObserverFunc(func(_ context.Context, tr services.Transition) {
		if tr.To == services.StateRetrying {
			spinner.UpdateMessage(t.GetMessage("generate.retrying", 0, map[string]interface{}{
				"Provider": tr.Provider,
				"Attempt":  tr.Attempt + 1,
			}))
		}
	})

	gen, err := c.factory.NewReadmeGenerator(di.ReadmeOptions{
		Command:  "generate",
		UseCache: !cmd.Bool("no-cache"),
		Observer: observer,
	})
	if err != nil {
		return err
	}

	spinner.Start()
	doc, err := gen.GenerateReadme(ctx, req)
	spinner.Stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	if target := cmd.String("output"); target != "" {
		if err := os.WriteFile(target, []byte(doc.Markdown+"\n"), 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", target, err)
		}
		ui.PrintSuccess(errOut, t.GetMessage("generate.written", 0, map[string]interface{}{"Path": target}))
	} else {
		_, _ = fmt.Fprintln(out, doc.Markdown)
	}

	ui.PrintSuccess(errOut, t.GetMessage("generate.done", 0, map[string]interface{}{
		"Provider": doc.Provider,
		"Model":    doc.Model,
	}))
	ui.PrintValidationReport(errOut, doc.Report, t)
	ui.PrintTokenUsage(errOut, doc.Usage, t)
	return nil
}

// requestFlags are shared by generate and batch.
func requestFlags(t *i18n.Translations, cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   t.GetMessage("flag.model", 0, nil),
			Value:   cfg.DefaultModel,
		},
		&cli.StringFlag{
			Name:    "tone",
			Aliases: []string{"t"},
			Usage:   t.GetMessage("flag.tone", 0, nil),
			Value:   cfg.DefaultTone,
		},
		&cli.StringSliceFlag{
			Name:    "section",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("flag.sections", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: t.GetMessage("flag.no_cache", 0, nil),
		},
	}
}

// requestFrom leaves the tone as typed; the prompt builder rejects unknown
// tones.
func requestFrom(cmd *cli.Command, result *models.AnalysisResult) models.GenerationRequest {
	return models.GenerationRequest{
		Analysis: result,
		Tone:     models.Tone(strings.ToLower(strings.TrimSpace(cmd.String("tone")))),
		Model:    cmd.String("model"),
		Sections: cmd.StringSlice("section"),
	}
}

func writers(cmd *cli.Command) (io.Writer, io.Writer) {
	root := cmd.Root()
	out, errOut := root.Writer, root.ErrWriter
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return out, errOut
}

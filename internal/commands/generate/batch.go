package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thomas-vilte/readmegen/internal/analysis"
	"github.com/thomas-vilte/readmegen/internal/commands/completion_helper"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/di"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

type BatchCommand struct {
	factory ReadmeFactory
}

func NewBatchCommand(factory ReadmeFactory) *BatchCommand {
	return &BatchCommand{factory: factory}
}

type batchResult struct {
	file string
	path string
	err  error
}

func (c *BatchCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "batch",
		Usage:         t.GetMessage("batch.usage", 0, nil),
		ArgsUsage:     "<analysis>...",
		ShellComplete: completion_helper.AnalysisFileComplete,
		Flags: append(requestFlags(t, cfg),
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"d"},
				Usage:   t.GetMessage("flag.out_dir", 0, nil),
				Value:   ".",
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("flag.concurrency", 0, nil),
				Value:   int64(cfg.BatchConcurrency),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, cmd, t)
		},
	}
}

func (c *BatchCommand) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.ErrInvalidInput.WithMessage(t.GetMessage("batch.missing_args", 0, nil))
	}

	gen, err := c.factory.NewReadmeGenerator(di.ReadmeOptions{
		Command:  "batch",
		UseCache: !cmd.Bool("no-cache"),
	})
	if err != nil {
		return err
	}

	limit := int(cmd.Int("concurrency"))
	if limit < 1 {
		limit = 1
	}
	outDir := cmd.String("out-dir")

	spinner := ui.NewSmartSpinner(t.GetMessage("batch.in_progress", 0, map[string]interface{}{"Current": 0, "Total": len(files)}))
	progressCh := make(chan models.BatchProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			switch p.Type {
			case models.BatchProgressStart:
				spinner.Start()
			case models.BatchProgressItemDone, models.BatchProgressItemFailed:
				spinner.UpdateMessage(t.GetMessage("batch.in_progress", 0, map[string]interface{}{"Current": p.Current, "Total": p.Total}))
			case models.BatchProgressComplete:
				spinner.Stop()
			}
		}
	}()

	results := c.generateAll(ctx, cmd, gen, files, outDir, limit, progressCh)
	close(progressCh)
	<-done

	_, errOut := writers(cmd)
	succeeded := 0
	for _, r := range results {
		if r.err != nil {
			ui.PrintError(errOut, t.GetMessage("batch.item_failed", 0, map[string]interface{}{"File": r.file, "Error": r.err}))
			continue
		}
		succeeded++
		ui.PrintSuccess(errOut, t.GetMessage("batch.item_done", 0, map[string]interface{}{"File": r.file, "Path": r.path}))
	}

	summary := t.GetMessage("batch.summary", len(files), map[string]interface{}{"Succeeded": succeeded, "Count": len(files)})
	if succeeded < len(files) {
		return errors.NewAppError(errors.TypeInternal, summary, nil)
	}
	ui.PrintInfo(errOut, summary)
	return nil
}

// generateAll runs at most limit generations at a time and reports each
// finished item on progressCh.
func (c *BatchCommand) generateAll(ctx context.Context, cmd *cli.Command, gen ports.ReadmeGenerator, files []string, outDir string, limit int, progressCh chan<- models.BatchProgress) []batchResult {
	total := len(files)
	progressCh <- models.BatchProgress{Type: models.BatchProgressStart, Total: total}

	jobs := planBatch(files, outDir)
	results := make([]batchResult, total)
	var (
		mu       sync.Mutex
		finished int
	)
	var g errgroup.Group
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			path, err := c.generateOne(ctx, cmd, gen, job)
			results[i] = batchResult{file: job.file, path: path, err: err}

			event := models.BatchProgress{Type: models.BatchProgressItemDone, File: job.file, Total: total}
			if err != nil {
				event.Type = models.BatchProgressItemFailed
				event.Error = err
			}
			mu.Lock()
			finished++
			event.Current = finished
			progressCh <- event
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	progressCh <- models.BatchProgress{Type: models.BatchProgressComplete, Current: total, Total: total}
	return results
}

type batchJob struct {
	file     string
	analysis *models.AnalysisResult
	dir      string
	err      error
}

// planBatch loads every analysis and gives each one its own output directory
// before any generation starts. Repositories that share a name get -2, -3 and
// so on in input order. Names are compared case-insensitively so the plan
// holds on case-insensitive filesystems too.
func planBatch(files []string, outDir string) []batchJob {
	jobs := make([]batchJob, len(files))
	taken := make(map[string]bool, len(files))
	for i, file := range files {
		jobs[i].file = file
		result, err := analysis.LoadFile(file)
		if err != nil {
			jobs[i].err = err
			continue
		}
		name := dirName(result.RepoMeta.Name, file)
		unique := name
		for n := 2; taken[strings.ToLower(unique)]; n++ {
			unique = fmt.Sprintf("%s-%d", name, n)
		}
		taken[strings.ToLower(unique)] = true
		jobs[i].analysis = result
		jobs[i].dir = filepath.Join(outDir, unique)
	}
	return jobs
}

// generateOne writes README.md into the directory planBatch picked.
func (c *BatchCommand) generateOne(ctx context.Context, cmd *cli.Command, gen ports.ReadmeGenerator, job batchJob) (string, error) {
	if job.err != nil {
		return "", job.err
	}
	ctx = logger.With(ctx, "file", job.file)

	doc, err := gen.GenerateReadme(ctx, requestFrom(cmd, job.analysis))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(job.dir, 0755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", job.dir, err)
	}
	path := filepath.Join(job.dir, "README.md")
	if err := os.WriteFile(path, []byte(doc.Markdown+"\n"), 0644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", path, err)
	}
	return path, nil
}

// dirName keeps the repository name inside outDir.
func dirName(repoName, file string) string {
	name := filepath.Base(filepath.Clean("/" + strings.TrimSpace(repoName)))
	if name == "/" || name == "." || name == "" {
		base := filepath.Base(file)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return name
}

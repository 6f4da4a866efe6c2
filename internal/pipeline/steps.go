package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/spider/internal/config"
	"github.com/nao1215/spider/internal/crawler"
	"github.com/nao1215/spider/internal/download"
	"github.com/nao1215/spider/internal/model"
	"github.com/nao1215/spider/internal/progress"
)

// CrawlStep discovers resources by crawling from the seed.
type CrawlStep struct {
	fetcher crawler.TextFetcher
	cfg     *config.CrawlConfig
	emitter progress.Emitter
	logger  *slog.Logger
}

// StepOption configures the crawl and download steps.
type StepOption func(*stepOptions)

type stepOptions struct {
	emitter progress.Emitter
	logger  *slog.Logger
}

// WithEmitter sends the step's progress events to e.
func WithEmitter(e progress.Emitter) StepOption {
	return func(o *stepOptions) {
		o.emitter = e
	}
}

// WithStepLogger sets the logger handed to the crawler or downloader.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(o *stepOptions) {
		o.logger = logger
	}
}

func applyStepOptions(opts []StepOption) stepOptions {
	o := stepOptions{emitter: progress.Nop{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewCrawlStep creates a crawl step for cfg that fetches pages with f.
func NewCrawlStep(f crawler.TextFetcher, cfg *config.CrawlConfig, opts ...StepOption) *CrawlStep {
	o := applyStepOptions(opts)
	return &CrawlStep{fetcher: f, cfg: cfg, emitter: o.emitter, logger: o.logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do runs the crawl and records the configuration, the visited pages, the
// failed pages and the discovered resources. On cancellation the partial
// results are recorded before ctx.Err() is returned.
func (s *CrawlStep) Do(ctx context.Context, report *model.RunReport) error {
	report.Seed = s.cfg.Seed()
	report.Domain = s.cfg.Domain()
	report.Recursive = s.cfg.Recursive()
	report.MaxLevel = s.cfg.MaxLevel()
	report.OutputDir = s.cfg.OutputDir()

	spider := crawler.NewSpider(s.fetcher, s.cfg,
		crawler.WithEmitter(s.emitter),
		crawler.WithLogger(s.logger),
	)
	resources, err := spider.Crawl(ctx)

	result := spider.Result()
	report.Pages = append(report.Pages, result.Pages...)
	report.Failures = append(report.Failures, result.Failures...)
	report.Resources = append(report.Resources, resources.URLs()...)

	return err
}

// DownloadStep saves the discovered resources.
type DownloadStep struct {
	fetcher download.BytesFetcher
	dir     string
	emitter progress.Emitter
	logger  *slog.Logger
}

// NewDownloadStep creates a download step writing into dir.
func NewDownloadStep(f download.BytesFetcher, dir string, opts ...StepOption) *DownloadStep {
	o := applyStepOptions(opts)
	return &DownloadStep{fetcher: f, dir: dir, emitter: o.emitter, logger: o.logger}
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do downloads report.Resources in order and records what was saved,
// skipped and not fetched.
func (s *DownloadStep) Do(ctx context.Context, report *model.RunReport) error {
	d := download.New(s.fetcher, s.dir,
		download.WithEmitter(s.emitter),
		download.WithLogger(s.logger),
	)
	summary, err := d.Download(ctx, report.Resources)

	report.Artifacts = append(report.Artifacts, summary.Artifacts...)
	report.Skipped = append(report.Skipped, summary.Skipped...)
	report.Failures = append(report.Failures, summary.Failed...)

	return err
}

// RunStore persists finished runs. *database.HistoryDB implements it.
type RunStore interface {
	SaveRun(ctx context.Context, report *model.RunReport) (int64, error)
}

// HistoryStep appends the run to the history database.
type HistoryStep struct {
	store  RunStore
	logger *slog.Logger
}

// NewHistoryStep creates a history step.
func NewHistoryStep(store RunStore, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do stores the report. FinishedAt is stamped first so the stored row has
// an end time.
func (s *HistoryStep) Do(ctx context.Context, report *model.RunReport) error {
	if report.FinishedAt.IsZero() {
		report.FinishedAt = time.Now()
	}
	id, err := s.store.SaveRun(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	s.logger.DebugContext(ctx, "run recorded", "id", id)
	return nil
}

package crawler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nao1215/spider/internal/config"
	"github.com/nao1215/spider/internal/fetcher"
	"github.com/nao1215/spider/internal/model"
	"github.com/nao1215/spider/internal/progress"
)

// TextFetcher fetches a page as text.
// *fetcher.Fetcher implements it.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// State is the lifecycle state of a Spider.
type State int32

const (
	// StateInit is the state before Crawl is called.
	StateInit State = iota
	// StateRunning is the state while the crawl loop runs.
	StateRunning
	// StateDone is the state after the loop ended, exhausted or cancelled.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Spider runs one crawl: it seeds a Frontier with the seed URL at level 1
// and pops, fetches and extracts pages until the Frontier is empty.
// A page that cannot be fetched is reported and skipped.
//
// A Spider is single-use; a second Crawl returns the first result.
type Spider struct {
	fetcher   TextFetcher
	cfg       *config.CrawlConfig
	extractor *Extractor
	parse     DocumentParser
	emitter   progress.Emitter
	logger    *slog.Logger

	state     atomic.Int32
	frontier  *Frontier
	resources *model.ResourceSet
	result    Result
	err       error
}

// Result summarizes a finished crawl.
type Result struct {
	// Pages lists the pages fetched successfully, in visit order.
	Pages []model.Page
	// Failures lists the pages that could not be fetched.
	Failures []model.FetchFailure
	// Visited is the number of URLs popped from the frontier.
	Visited int
	// Duration is how long the loop ran.
	Duration time.Duration
}

// Option configures a Spider.
type Option func(*Spider)

// WithEmitter sends progress events to e.
func WithEmitter(e progress.Emitter) Option {
	return func(s *Spider) {
		s.emitter = e
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithDocumentParser replaces the HTML parser.
func WithDocumentParser(p DocumentParser) Option {
	return func(s *Spider) {
		s.parse = p
	}
}

// NewSpider creates a Spider for cfg that fetches pages with f.
func NewSpider(f TextFetcher, cfg *config.CrawlConfig, opts ...Option) *Spider {
	s := &Spider{
		fetcher:   f,
		cfg:       cfg,
		extractor: NewExtractor(cfg),
		parse:     ParseHTML,
		emitter:   progress.Nop{},
		logger:    slog.Default(),
		frontier:  NewFrontier(),
		resources: model.NewResourceSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Spider) State() State {
	return State(s.state.Load())
}

// Result returns the statistics of the crawl. It is only complete once
// State is StateDone.
func (s *Spider) Result() Result {
	return s.result
}

// Crawl runs the crawl loop and returns the discovered resources in
// discovery order.
//
// Fetch failures never stop the loop. If ctx is cancelled the loop stops
// before the next page and Crawl returns the resources found so far
// together with ctx.Err().
func (s *Spider) Crawl(ctx context.Context) (*model.ResourceSet, error) {
	if !s.state.CompareAndSwap(int32(StateInit), int32(StateRunning)) {
		return s.resources, s.err
	}

	start := time.Now()
	s.frontier.Add(s.cfg.Seed(), 1)
	s.logger.DebugContext(ctx, "crawl started",
		"seed", s.cfg.Seed(), "max_level", s.cfg.MaxLevel(), "domain", s.cfg.Domain())

	prevLevel := -1
	for !s.frontier.IsEmpty() {
		if err := ctx.Err(); err != nil {
			s.err = err
			break
		}

		pageURL, level, _ := s.frontier.Next()
		if level != prevLevel {
			prevLevel = level
			s.emit(progress.Event{Kind: progress.KindLevelChanged, Level: level})
		}

		if err := s.visit(ctx, pageURL, level); err != nil {
			if ctx.Err() != nil {
				s.err = ctx.Err()
				break
			}
			reason := fetcher.Reason(err)
			s.result.Failures = append(s.result.Failures, model.FetchFailure{URL: pageURL, Reason: reason})
			s.emit(progress.Event{Kind: progress.KindFetchFailed, URL: pageURL, Level: level, Reason: reason})
		}
	}

	s.result.Visited = s.frontier.Visited()
	s.result.Duration = time.Since(start)
	s.emit(progress.Event{Kind: progress.KindCrawlDone, Count: s.resources.Len()})
	s.logger.DebugContext(ctx, "crawl finished",
		"visited", s.result.Visited, "resources", s.resources.Len(), "failures", len(s.result.Failures))
	s.state.Store(int32(StateDone))

	return s.resources, s.err
}

func (s *Spider) visit(ctx context.Context, pageURL string, level int) error {
	text, err := s.fetcher.FetchText(ctx, pageURL)
	if err != nil {
		return err
	}

	links := s.extractor.Extract(s.parse(text), pageURL, level)

	for _, r := range links.Resources {
		if s.resources.Add(r) {
			s.emit(progress.Event{
				Kind:  progress.KindResourceDiscovered,
				URL:   r,
				Level: level,
				Count: s.resources.Len(),
			})
		}
	}
	for _, c := range links.Children {
		s.frontier.Add(c.URL, c.Level)
	}

	s.result.Pages = append(s.result.Pages, model.Page{
		URL:       pageURL,
		Level:     level,
		Resources: len(links.Resources),
		Children:  len(links.Children),
	})
	return nil
}

func (s *Spider) emit(evt progress.Event) {
	evt.Phase = progress.PhaseCrawl
	if evt.TS.IsZero() {
		evt.TS = time.Now()
	}
	s.emitter.Emit(evt)
}

// Package download fetches discovered resources, checks their real format
// and saves the accepted ones to the output directory.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/spider/internal/fetcher"
	"github.com/nao1215/spider/internal/model"
	"github.com/nao1215/spider/internal/progress"
	"github.com/nao1215/spider/internal/sniff"
)

// fileMode is the permission of written files.
const fileMode = 0o644

// BytesFetcher fetches the raw body of a URL.
// *fetcher.Fetcher implements it.
type BytesFetcher interface {
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// Summary is the outcome of a download run.
// Partial success is a normal outcome.
type Summary struct {
	// Artifacts are the files written, in processing order.
	Artifacts []model.Artifact
	// Skipped are the resources fetched but not saved.
	Skipped []model.SkippedDownload
	// Failed are the resources that could not be fetched.
	Failed []model.FetchFailure
}

// Processed returns how many resources were handled.
func (s *Summary) Processed() int {
	return len(s.Artifacts) + len(s.Skipped) + len(s.Failed)
}

// Downloader saves resources one at a time.
type Downloader struct {
	fetcher BytesFetcher
	sniffer sniff.Sniffer
	dir     string
	emitter progress.Emitter
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithSniffer replaces the format sniffer.
func WithSniffer(s sniff.Sniffer) Option {
	return func(d *Downloader) {
		d.sniffer = s
	}
}

// WithEmitter sends progress events to e.
func WithEmitter(e progress.Emitter) Option {
	return func(d *Downloader) {
		d.emitter = e
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// New creates a Downloader writing into dir, which must exist.
func New(f BytesFetcher, dir string, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher: f,
		sniffer: sniff.NewFileTypeSniffer(),
		dir:     dir,
		emitter: progress.Nop{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download processes urls in order. A resource that cannot be fetched is
// reported and skipped; an empty or unsupported body is skipped. Every
// accepted body is written as <basename>.<sniffed extension>, replacing any
// file of the same name.
//
// The returned error is only non-nil when ctx was cancelled; the summary
// then covers the resources handled so far.
func (d *Downloader) Download(ctx context.Context, urls []string) (*Summary, error) {
	summary := &Summary{
		Artifacts: make([]model.Artifact, 0),
		Skipped:   make([]model.SkippedDownload, 0),
		Failed:    make([]model.FetchFailure, 0),
	}
	total := len(urls)
	start := d.now()

	var err error
	for i, rawURL := range urls {
		if err = ctx.Err(); err != nil {
			break
		}

		if stop := d.process(ctx, rawURL, summary); stop != nil {
			err = stop
			break
		}

		done := i + 1
		pct := progress.Percentage(done, total)
		d.emit(progress.Event{
			Kind:    progress.KindDownloadProgress,
			Done:    done,
			Total:   total,
			Percent: pct,
			ETA:     progress.EstimateRemaining(d.now().Sub(start), pct),
		})
	}

	d.emit(progress.Event{Kind: progress.KindDownloadDone, Done: summary.Processed(), Total: total})
	return summary, err
}

// process handles one resource. It only returns an error when ctx is done.
func (d *Downloader) process(ctx context.Context, rawURL string, summary *Summary) error {
	data, err := d.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reason := fetcher.Reason(err)
		summary.Failed = append(summary.Failed, model.FetchFailure{URL: rawURL, Reason: reason})
		d.emit(progress.Event{Kind: progress.KindFetchFailed, URL: rawURL, Reason: reason})
		return nil
	}

	if len(data) == 0 {
		d.skip(summary, rawURL, "empty body")
		return nil
	}

	format, err := d.sniffer.Sniff(data)
	if err != nil {
		d.skip(summary, rawURL, err.Error())
		return nil
	}

	filename := Filename(rawURL, format.Extension)
	target := filepath.Join(d.dir, filename)
	if err := os.WriteFile(target, data, fileMode); err != nil {
		d.skip(summary, rawURL, fmt.Sprintf("cannot write %s: %v", filename, err))
		return nil
	}

	artifact := model.Artifact{
		SourceURL: rawURL,
		Filename:  filename,
		Path:      target,
		MIME:      format.MIME,
		Extension: format.Extension,
		Size:      int64(len(data)),
		Digest:    model.ComputeDigest(data),
	}
	summary.Artifacts = append(summary.Artifacts, artifact)
	d.logger.DebugContext(ctx, "file saved", "url", rawURL, "path", target, "mime", format.MIME)
	d.emit(progress.Event{Kind: progress.KindArtifactSaved, URL: rawURL, Path: target})
	return nil
}

func (d *Downloader) skip(summary *Summary, rawURL, reason string) {
	summary.Skipped = append(summary.Skipped, model.SkippedDownload{URL: rawURL, Reason: reason})
	d.emit(progress.Event{Kind: progress.KindDownloadSkipped, URL: rawURL, Reason: reason})
}

func (d *Downloader) emit(evt progress.Event) {
	evt.Phase = progress.PhaseDownload
	if evt.TS.IsZero() {
		evt.TS = d.now()
	}
	d.emitter.Emit(evt)
}

// Filename derives the output file name of rawURL: the last path segment
// with its extension replaced by ext. The segment keeps its percent
// escapes. A URL whose path is empty or ends in a slash gives "index.<ext>".
func Filename(rawURL, ext string) string {
	var base string
	if u, err := url.Parse(rawURL); err == nil {
		path := u.EscapedPath()
		base = path[strings.LastIndex(path, "/")+1:]
	}

	name := stem(base)
	switch name {
	case "", ".", "..":
		name = "index"
	}
	name = strings.ReplaceAll(name, `\`, "_")

	return name + "." + ext
}

// stem strips the extension of base. Leading dots do not start an
// extension, so ".hidden" keeps its name.
func stem(base string) string {
	trimmed := strings.TrimLeft(base, ".")
	if i := strings.LastIndex(trimmed, "."); i >= 0 {
		return base[:len(base)-len(trimmed)+i]
	}
	return base
}

package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/spider/internal/model"
	"github.com/nao1215/spider/internal/sniff"
)

// Reader reads the metadata of one file.
type Reader interface {
	// Read returns the metadata of the file at path. The result is never
	// nil; when err is non-nil its Error field carries the same message.
	Read(ctx context.Context, path string) (*model.FileMetadata, error)
}

// FileReader is the Reader for the formats sniff supports.
type FileReader struct {
	sniffer     sniff.Sniffer
	logger      *slog.Logger
	concurrency int
}

// Option configures a FileReader.
type Option func(*FileReader)

// WithSniffer replaces the format sniffer.
func WithSniffer(s sniff.Sniffer) Option {
	return func(r *FileReader) {
		r.sniffer = s
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *FileReader) {
		r.logger = logger
	}
}

// WithConcurrency limits how many files ReadAll reads at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *FileReader) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewFileReader creates a FileReader.
func NewFileReader(opts ...Option) *FileReader {
	r := &FileReader{
		sniffer:     sniff.NewFileTypeSniffer(),
		logger:      slog.Default(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read implements Reader.
func (r *FileReader) Read(ctx context.Context, path string) (*model.FileMetadata, error) {
	md := &model.FileMetadata{Path: path, Name: filepath.Base(path)}
	if err := ctx.Err(); err != nil {
		return fail(md, err)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fail(md, fmt.Errorf("%w: %w", ErrNotReadable, err))
		}
		return fail(md, ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // the path is given by the user on purpose
	if err != nil {
		return fail(md, ErrNotReadable)
	}

	format, err := r.sniffer.Sniff(data)
	if err != nil {
		if errors.Is(err, sniff.ErrUnsupportedFormat) {
			return fail(md, fmt.Errorf("MIME %s %w", sniff.MIME(data), ErrUnsupportedType))
		}
		return fail(md, ErrUnknownType)
	}

	md.MIME = format.MIME
	md.Size = info.Size()
	md.Modified = info.ModTime()
	md.Created = changeTime(info)

	switch {
	case format.IsImage():
		err = readImage(md, data)
	case format == sniff.PDF:
		readPDF(md, data)
	default:
		err = readDocx(md, data)
	}
	if err != nil {
		return fail(md, err)
	}

	r.logger.DebugContext(ctx, "metadata read",
		"path", path, "mime", md.MIME, "properties", len(md.Properties), "exif", len(md.EXIF))
	return md, nil
}

// ReadAll reads every path and returns the results in input order.
// Per-file errors are kept in the results; the returned error is only set
// when ctx is cancelled.
func (r *FileReader) ReadAll(ctx context.Context, paths []string) ([]*model.FileMetadata, error) {
	results := make([]*model.FileMetadata, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			md, err := r.Read(gctx, p)
			results[i] = md
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func fail(md *model.FileMetadata, err error) (*model.FileMetadata, error) {
	md.Error = err.Error()
	return md, err
}

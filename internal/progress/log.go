package progress

import (
	"context"
	"log/slog"
)

// LogSink writes events as structured log records.
// Discoveries and progress are logged at Debug, level changes at Info, and
// failures and skips at Warn.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink wraps logger. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs evt.
func (s *LogSink) Emit(evt Event) {
	ctx := context.Background()
	switch evt.Kind {
	case KindLevelChanged:
		s.logger.InfoContext(ctx, "crawling level", "level", evt.Level)
	case KindResourceDiscovered:
		s.logger.DebugContext(ctx, "resource discovered", "url", evt.URL, "count", evt.Count)
	case KindFetchFailed:
		s.logger.WarnContext(ctx, "fetch failed",
			"phase", string(evt.Phase), "url", evt.URL, "reason", evt.Reason)
	case KindDownloadSkipped:
		s.logger.WarnContext(ctx, "download skipped", "url", evt.URL, "reason", evt.Reason)
	case KindArtifactSaved:
		s.logger.DebugContext(ctx, "file saved", "url", evt.URL, "path", evt.Path)
	case KindDownloadProgress:
		s.logger.DebugContext(ctx, "download progress",
			"done", evt.Done, "total", evt.Total, "percent", evt.Percent, "eta", evt.ETA)
	case KindCrawlDone:
		s.logger.InfoContext(ctx, "crawl finished", "resources", evt.Count)
	case KindDownloadDone:
		s.logger.InfoContext(ctx, "download finished", "processed", evt.Done, "total", evt.Total)
	}
}

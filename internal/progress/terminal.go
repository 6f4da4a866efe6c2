package progress

import (
	"fmt"
	"io"
	"sync"
)

// TerminalSink draws a single status line on a terminal, rewriting it with a
// carriage return, and prints warnings on their own lines:
//
//	Level 02 - Links: 17
//	Saving files:  42% - ETA: 1.20s
//	Warning: URL "http://ex.com/broken" is not valid
type TerminalSink struct {
	mu       sync.Mutex
	w        io.Writer
	level    int
	count    int
	lineOpen bool
}

// NewTerminalSink returns a sink writing to w (usually os.Stderr).
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

// Emit renders evt.
func (s *TerminalSink) Emit(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt.Kind {
	case KindLevelChanged:
		s.level = evt.Level
		s.status(fmt.Sprintf("Level %02d - Links: %d", s.level, s.count))
	case KindResourceDiscovered:
		s.count = evt.Count
		s.status(fmt.Sprintf("Level %02d - Links: %d", s.level, s.count))
	case KindDownloadProgress:
		s.status(fmt.Sprintf("Saving files: %3d%% - ETA: %.2fs ", evt.Percent, evt.ETA.Seconds()))
	case KindFetchFailed:
		if evt.Phase == PhaseDownload {
			s.warn(fmt.Sprintf("Warning: Image link %q is not valid", evt.URL))
		} else {
			s.warn(fmt.Sprintf("Warning: URL %q is not valid", evt.URL))
		}
	case KindDownloadSkipped:
		s.warn(fmt.Sprintf("Warning: File %q skipped: %s", evt.URL, evt.Reason))
	case KindCrawlDone, KindDownloadDone:
		s.endLine()
	}
}

func (s *TerminalSink) status(line string) {
	_, _ = fmt.Fprintf(s.w, "\r%s", line)
	s.lineOpen = true
}

func (s *TerminalSink) warn(line string) {
	s.endLine()
	_, _ = fmt.Fprintln(s.w, line)
}

func (s *TerminalSink) endLine() {
	if s.lineOpen {
		_, _ = fmt.Fprintln(s.w)
		s.lineOpen = false
	}
}

package progress

import (
	"fmt"
	"time"
)

// Kind denotes which milestone an Event represents.
type Kind string

// Supported event kinds.
const (
	// KindLevelChanged is emitted when the crawler pops a URL from a different
	// level than the previous one.
	KindLevelChanged Kind = "LEVEL_CHANGED"
	// KindResourceDiscovered is emitted for each new resource URL, with the
	// running count of discovered resources.
	KindResourceDiscovered Kind = "RESOURCE_DISCOVERED"
	// KindFetchFailed is emitted when a page or resource cannot be fetched.
	KindFetchFailed Kind = "FETCH_FAILED"
	// KindCrawlDone is emitted once when the frontier is exhausted or the
	// crawl is cancelled.
	KindCrawlDone Kind = "CRAWL_DONE"
	// KindDownloadProgress is emitted after every resource the downloader
	// processed, whatever the outcome.
	KindDownloadProgress Kind = "DOWNLOAD_PROGRESS"
	// KindDownloadSkipped is emitted when a fetched body is empty or not a
	// supported format.
	KindDownloadSkipped Kind = "DOWNLOAD_SKIPPED"
	// KindArtifactSaved is emitted when a file was written.
	KindArtifactSaved Kind = "ARTIFACT_SAVED"
	// KindDownloadDone is emitted once after the last resource.
	KindDownloadDone Kind = "DOWNLOAD_DONE"
)

// Phase tells which loop emitted an event.
type Phase string

// Run phases.
const (
	PhaseCrawl    Phase = "crawl"
	PhaseDownload Phase = "download"
)

// Event captures a single step of crawl or download progress.
// Only the fields relevant to Kind are set.
type Event struct {
	// Kind denotes the milestone.
	Kind Kind
	// Phase is the loop that emitted the event.
	Phase Phase
	// TS is the time the event was emitted.
	TS time.Time
	// URL is the page or resource concerned.
	URL string
	// Level is the crawl level of the page being processed.
	Level int
	// Count is the running number of discovered resources.
	Count int
	// Done is the number of resources processed so far.
	Done int
	// Total is the number of resources to process.
	Total int
	// Percent is Done relative to Total, truncated to an integer.
	Percent int
	// ETA is the estimated time to finish the download loop.
	ETA time.Duration
	// Path is the file written for KindArtifactSaved.
	Path string
	// Reason describes a failure or skip.
	Reason string
}

// String renders the event for debugging.
func (e Event) String() string {
	switch e.Kind {
	case KindLevelChanged:
		return fmt.Sprintf("%s level=%d", e.Kind, e.Level)
	case KindResourceDiscovered:
		return fmt.Sprintf("%s url=%s count=%d", e.Kind, e.URL, e.Count)
	case KindDownloadProgress:
		return fmt.Sprintf("%s %d/%d %d%% eta=%s", e.Kind, e.Done, e.Total, e.Percent, e.ETA)
	case KindFetchFailed, KindDownloadSkipped:
		return fmt.Sprintf("%s url=%s reason=%s", e.Kind, e.URL, e.Reason)
	case KindArtifactSaved:
		return fmt.Sprintf("%s url=%s path=%s", e.Kind, e.URL, e.Path)
	default:
		return string(e.Kind)
	}
}

// Percentage returns done*100/total truncated, or 100 when total is zero.
func Percentage(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}

// EstimateRemaining extrapolates the remaining time from the elapsed time
// and the completed percentage: elapsed * (100 - pct) / max(pct, 1).
func EstimateRemaining(elapsed time.Duration, pct int) time.Duration {
	if pct >= 100 {
		return 0
	}
	divisor := pct
	if divisor < 1 {
		divisor = 1
	}
	return time.Duration(float64(elapsed) * float64(100-pct) / float64(divisor))
}

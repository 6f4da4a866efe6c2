package model

import "time"

// RunReport is the result of one crawl-and-download run.
// It is filled in step by step by the pipeline and finally rendered by the
// report writers and stored in the history database.
type RunReport struct {
	// ID is the history database identifier (zero until stored).
	ID int64 `json:"id,omitempty"`

	// Seed is the seed URL the crawl started from.
	Seed string `json:"seed"`

	// Domain is the host that anchors must match to be followed.
	Domain string `json:"domain"`

	// Recursive reports whether anchors were followed at all.
	Recursive bool `json:"recursive"`

	// MaxLevel is the effective maximum depth (0 = unlimited).
	MaxLevel int `json:"max_level"`

	// OutputDir is the directory artifacts were written to.
	OutputDir string `json:"output_dir"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step finished.
	FinishedAt time.Time `json:"finished_at"`

	// Pages lists the pages fetched successfully, in visit order.
	Pages []Page `json:"pages"`

	// Resources lists the discovered resource URLs in discovery order.
	Resources []string `json:"resources"`

	// Failures lists the URLs that could not be fetched, during crawling
	// or downloading.
	Failures []FetchFailure `json:"failures,omitempty"`

	// Artifacts lists the files written to OutputDir.
	Artifacts []Artifact `json:"artifacts"`

	// Skipped lists the resources whose content was not a supported format.
	Skipped []SkippedDownload `json:"skipped,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true if the run was interrupted before completion.
	// The recorded data is then a partial result.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error holds a step error; it is not serialized directly.
	Error error `json:"-"`

	// ErrorMessage is the serialized form of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRunReport creates an empty report for the given seed.
func NewRunReport(seed string) *RunReport {
	return &RunReport{
		Seed:      seed,
		StartedAt: time.Now(),
		Pages:     make([]Page, 0),
		Resources: make([]string, 0),
		Failures:  make([]FetchFailure, 0),
		Artifacts: make([]Artifact, 0),
		Skipped:   make([]SkippedDownload, 0),
	}
}

// Duration returns how long the run took.
// It is zero until FinishedAt is set.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddFailure records a URL that could not be fetched.
func (r *RunReport) AddFailure(url, reason string) {
	r.Failures = append(r.Failures, FetchFailure{URL: url, Reason: reason})
}

// AddSkipped records a resource that was not saved.
func (r *RunReport) AddSkipped(url, reason string) {
	r.Skipped = append(r.Skipped, SkippedDownload{URL: url, Reason: reason})
}

// Status returns a one-word summary of the run outcome.
// Partial downloads are a normal outcome and still report "complete".
func (r *RunReport) Status() string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case r.ErrorMessage != "":
		return "error"
	default:
		return "complete"
	}
}

package config

import "errors"

// Construction and validation errors.
// Callers match them with errors.Is; the returned errors wrap them with the
// offending value.
var (
	// ErrInvalidURL is returned when the seed is neither an http(s) URL with a
	// host, a file URL, nor an existing local path.
	ErrInvalidURL = errors.New("invalid seed url")

	// ErrInvalidLevel is returned when the maximum depth is negative.
	// Use 0 for unlimited depth.
	ErrInvalidLevel = errors.New("invalid level: must be non-negative")

	// ErrInvalidPath is returned when the output directory cannot be
	// created, is not a directory or cannot be written to.
	ErrInvalidPath = errors.New("invalid output path")

	// ErrNoSeed is returned when no seed URL was given on the command line.
	ErrNoSeed = errors.New("no seed specified: provide a URL or a local file path")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxies is returned when both --proxy and --tor are given.
	ErrConflictingProxies = errors.New("conflicting proxies: --proxy and --tor cannot be used together")

	// ErrInvalidTimeout is returned when the Tor startup timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)

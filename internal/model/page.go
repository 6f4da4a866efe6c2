package model

// Page records a single page visited by the crawler.
// Only pages that were fetched successfully are recorded; failures are
// kept separately as FetchFailure values.
type Page struct {
	// URL is the page URL as it was popped from the frontier.
	URL string `json:"url"`

	// Level is the BFS depth of the page (seed = 1, 0 in unlimited mode).
	Level int `json:"level"`

	// Resources is the number of resource URLs the page yielded,
	// including ones already discovered on other pages.
	Resources int `json:"resources"`

	// Children is the number of same-domain links the page yielded.
	Children int `json:"children"`
}

// FetchFailure records a URL that could not be fetched.
type FetchFailure struct {
	// URL is the URL that failed.
	URL string `json:"url"`

	// Reason is the human-readable cause of the failure.
	Reason string `json:"reason"`
}

// SkippedDownload records a resource that was fetched but not saved
// because its content did not match a supported format.
type SkippedDownload struct {
	// URL is the resource URL.
	URL string `json:"url"`

	// Reason explains why the body was rejected.
	Reason string `json:"reason"`
}

// Package model defines the data structures shared across spider.
//
// This package contains the following main types:
//   - ResourceSet: The insertion-ordered set of discovered resource URLs
//   - Page: A page visited by the crawler and what it yielded
//   - Artifact: A downloaded file persisted to the output directory
//   - RunReport: The complete result of one crawl-and-download run
//   - FileMetadata: The properties read from a local image or document
//
// The types carry JSON tags; the report writers and the history database
// both serialize them.
package model

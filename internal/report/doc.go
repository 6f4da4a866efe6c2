// Package report renders run reports and file metadata.
//
// Run reports (model.RunReport) have three formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON for other tools
//   - MarkdownWriter: GitHub flavored Markdown for sharing
//
// File metadata (model.FileMetadata) is printed by MetadataTextWriter in
// the classic "------- name -------" block layout, or by
// MetadataMarkdownWriter as tables.
//
// Writers implement the Writer or MetadataWriter interface, so they can be
// used interchangeably and composed with MultiWriter.
package report

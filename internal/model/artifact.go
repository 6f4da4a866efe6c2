package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Artifact is a downloaded resource persisted to the output directory.
// The downloader is the only component that creates artifacts; nothing reads
// the written files back.
type Artifact struct {
	// SourceURL is the URL the bytes were fetched from.
	SourceURL string `json:"source_url"`

	// Filename is the base name of the written file.
	Filename string `json:"filename"`

	// Path is the full path of the written file.
	Path string `json:"path"`

	// MIME is the sniffed MIME type (not the declared Content-Type).
	MIME string `json:"mime"`

	// Extension is the canonical extension of the sniffed format.
	Extension string `json:"extension"`

	// Size is the number of bytes written.
	Size int64 `json:"size"`

	// Digest is the hex encoded SHA3-256 of the content.
	Digest string `json:"digest"`
}

// ComputeDigest returns the hex encoded SHA3-256 digest of data.
// An empty input yields an empty string.
func ComputeDigest(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

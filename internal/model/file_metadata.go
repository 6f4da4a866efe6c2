package model

import "time"

// FileMetadata holds the properties read from a local image or document.
type FileMetadata struct {
	// Path is the path that was read.
	Path string `json:"path"`

	// Name is the base name of Path.
	Name string `json:"name"`

	// MIME is the sniffed MIME type.
	MIME string `json:"mime,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Created is the inode change time, the closest portable creation time.
	Created time.Time `json:"created"`

	// Modified is the last modification time.
	Modified time.Time `json:"modified"`

	// Properties are the format specific properties, in display order.
	Properties []Property `json:"properties,omitempty"`

	// EXIF holds the EXIF tags of an image, in file order.
	EXIF []Property `json:"exif,omitempty"`

	// Error describes why the file could not be read.
	// When set, the other fields may be incomplete.
	Error string `json:"error,omitempty"`
}

// Property is a single named metadata value.
type Property struct {
	// Key is the display label.
	Key string `json:"key"`

	// Value is the formatted value.
	Value string `json:"value"`
}

// AddProperty appends a property.
func (m *FileMetadata) AddProperty(key, value string) {
	m.Properties = append(m.Properties, Property{Key: key, Value: value})
}

// HasEXIF reports whether any EXIF tags were found.
func (m *FileMetadata) HasEXIF() bool {
	return len(m.EXIF) > 0
}

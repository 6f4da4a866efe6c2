package metadata

import "errors"

var (
	// ErrNotExist is returned when the path does not name a regular file.
	ErrNotExist = errors.New("file does not exist")

	// ErrNotReadable is returned when the file exists but cannot be opened.
	ErrNotReadable = errors.New("can not access file")

	// ErrUnknownType is returned when no known signature matches.
	ErrUnknownType = errors.New("unknown file type")

	// ErrUnsupportedType is returned for a recognized but unsupported type.
	ErrUnsupportedType = errors.New("not supported")

	// ErrUnidentifiedImage is returned when an image header cannot be decoded.
	ErrUnidentifiedImage = errors.New("unidentified image")

	// ErrBrokenDocument is returned when a DOCX package cannot be opened.
	ErrBrokenDocument = errors.New("broken document")
)

package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrBadStatus is returned when the server answers with a status other
	// than 200 OK. The wrapping error carries the status.
	ErrBadStatus = errors.New("unexpected status")

	// ErrBodyTooLarge is returned when a body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("body too large")

	// ErrUnsupportedScheme is returned for URLs that are neither http(s) nor file.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrIdleTimeout is returned when the body stalls longer than ReadTimeout.
	ErrIdleTimeout = errors.New("read timeout")
)

// FetchError reports a URL that could not be fetched.
type FetchError struct {
	// URL is the URL that failed.
	URL string
	// Err is the cause.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Reason returns a short description of why err happened, without the URL
// when err is a *FetchError.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Err.Error()
	}
	return err.Error()
}

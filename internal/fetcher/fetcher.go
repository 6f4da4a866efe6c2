package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
)

// Request policy.
const (
	// UserAgent is sent with every request.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:78.0) Gecko/20100101 Firefox/78.0"

	// ConnectTimeout bounds establishing a connection.
	ConnectTimeout = 3 * time.Second

	// ReadTimeout bounds the wait for the response headers and for each
	// subsequent read of the body.
	ReadTimeout = 7 * time.Second

	// DefaultMaxBodySize is the largest body read when no limit is set.
	DefaultMaxBodySize = 50 * 1024 * 1024
)

// Fetcher retrieves URLs as text or bytes.
// It is safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	dialer      proxy.ContextDialer
	cookie      string
	headers     map[string]string
	maxBodySize int64
	readTimeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient uses client instead of the built-in one.
// The connect timeout then is the client's business.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithDialer routes connections through dialer, typically a SOCKS5 proxy.
// It is ignored when WithHTTPClient is given.
func WithDialer(dialer proxy.ContextDialer) Option {
	return func(f *Fetcher) {
		f.dialer = dialer
	}
}

// WithCookie sends cookie with every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sends the given headers with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = maps.Clone(headers)
	}
}

// WithMaxBodySize limits the body size; a larger body is an error.
// Values <= 0 select DefaultMaxBodySize.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// withReadTimeout shortens the idle read timeout in tests.
func withReadTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.readTimeout = d
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		maxBodySize: DefaultMaxBodySize,
		readTimeout: ReadTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxBodySize <= 0 {
		f.maxBodySize = DefaultMaxBodySize
	}

	var client *http.Client
	if f.client != nil {
		c := *f.client
		client = &c
	} else {
		client = &http.Client{Transport: newTransport(f.dialer)}
	}

	if f.cookie != "" || len(f.headers) > 0 {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client.Transport = &headerInjectingTransport{
			base:    base,
			cookie:  f.cookie,
			headers: f.headers,
		}
	}
	f.client = client

	return f
}

// FetchText returns the body of rawURL decoded to UTF-8.
// The encoding comes from the Content-Type charset, a <meta> declaration
// or a byte order mark, in that order.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := f.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// Unknown charset label: fall back to the raw bytes.
		return string(body), nil
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	return string(text), nil
}

// FetchBytes returns the raw body of rawURL.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, _, err := f.fetch(ctx, rawURL)
	return body, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: err}
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, rawURL)
	case "file":
		body, err := f.readFile(localPath(u))
		if err != nil {
			return nil, "", &FetchError{URL: rawURL, Err: err}
		}
		return body, "text/html", nil
	default:
		return nil, "", &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)}
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &FetchError{
			URL: rawURL,
			Err: fmt.Errorf("%w: %s", ErrBadStatus, resp.Status),
		}
	}

	var expired atomic.Bool
	timer := time.AfterFunc(f.readTimeout, func() {
		expired.Store(true)
		cancel()
	})
	defer timer.Stop()

	body, err := f.readLimited(&idleTimeoutReader{
		body:    resp.Body,
		timer:   timer,
		timeout: f.readTimeout,
		expired: expired.Load,
	})
	if err != nil {
		return nil, "", &FetchError{URL: rawURL, Err: err}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}
	return body, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path) //nolint:gosec // Local seeds are user supplied
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.readLimited(file)
}

// localPath returns the filesystem path of a file URL. A host part is kept
// in front of the path so that "file://relative/page.html" reads
// "relative/page.html".
func localPath(u *url.URL) string {
	if u.Host == "" || u.Host == "localhost" {
		return u.Path
	}
	return u.Host + u.Path
}

// unwrapURLError strips the *url.Error wrapper, whose message repeats the
// method and URL already carried by FetchError.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() && !strings.Contains(ue.Err.Error(), "timeout") {
			return fmt.Errorf("timeout: %w", ue.Err)
		}
		return ue.Err
	}
	return err
}

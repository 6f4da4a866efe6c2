package fetcher

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// newTransport builds the transport used when no client is supplied.
// A nil dialer connects directly (honoring the proxy environment variables).
func newTransport(dialer proxy.ContextDialer) *http.Transport {
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: ReadTimeout,
		TLSHandshakeTimeout:   ReadTimeout,
		IdleConnTimeout:       30 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
	}

	if dialer == nil {
		d := &net.Dialer{Timeout: ConnectTimeout, KeepAlive: 30 * time.Second}
		t.DialContext = d.DialContext
		return t
	}

	// The SOCKS proxy resolves names itself; environment proxies would
	// bypass it.
	t.Proxy = nil
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
		defer cancel()
		return dialer.DialContext(ctx, network, addr)
	}
	return t
}

// headerInjectingTransport adds the configured cookie and headers to every
// request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}

// idleTimeoutReader cancels the request when no data arrives for timeout.
type idleTimeoutReader struct {
	body    io.Reader
	timer   *time.Timer
	timeout time.Duration
	expired func() bool
}

func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.body.Read(p)
	if err != nil && r.expired() {
		return n, ErrIdleTimeout
	}
	if n > 0 {
		r.timer.Reset(r.timeout)
	}
	return n, err
}

// Package fetcher retrieves pages and resources for the crawler and the
// downloader.
//
// Network URLs are fetched with a GET request that carries a fixed browser
// User-Agent, waits at most 3 seconds for the connection and at most 7
// seconds for the response headers or for the next chunk of the body.
// file URLs are read from the local filesystem. Every failure is returned as
// a *FetchError naming the URL; there are no retries.
//
// Requests can be routed through a SOCKS5 dialer (WithDialer) and decorated
// with a cookie and extra headers (WithCookie, WithHeaders).
package fetcher

// Package proxy routes spider's connections through a SOCKS5 proxy.
//
// Client wraps a golang.org/x/net/proxy SOCKS5 dialer for an existing
// proxy such as a local Tor daemon. EmbeddedTor starts a private Tor
// daemon with tornago and hands out a Client for it, so crawling through
// Tor works without a system installation.
//
// Both only produce a dialer; the fetcher decides how to use it.
package proxy

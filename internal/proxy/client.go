package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// DefaultCheckTimeout bounds CheckConnection.
const DefaultCheckTimeout = 2 * time.Second

const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// Client dials through a SOCKS5 proxy.
// It is safe for concurrent use.
type Client struct {
	address      string
	dialer       netproxy.ContextDialer
	checkTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCheckTimeout changes how long CheckConnection waits for the proxy.
func WithCheckTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.checkTimeout = d
	}
}

// NewClient creates a Client for the SOCKS5 proxy at address ("host:port").
// It does not connect; call CheckConnection to verify the proxy.
func NewClient(address string, opts ...ClientOption) (*Client, error) {
	if !isValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	d, err := netproxy.SOCKS5("tcp", address, nil, netproxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	cd, ok := d.(netproxy.ContextDialer)
	if !ok {
		return nil, errors.New("SOCKS5 dialer does not support contexts")
	}

	c := &Client{
		address:      address,
		dialer:       cd,
		checkTimeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func isValidAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// Address returns the proxy address.
func (c *Client) Address() string {
	return c.address
}

// Dialer returns the SOCKS5 dialer, for fetcher.WithDialer.
func (c *Client) Dialer() netproxy.ContextDialer {
	return c.dialer
}

// DialContext connects to address through the proxy.
func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, network, address)
}

// CheckConnection performs a SOCKS5 greeting offering no authentication
// and reports whether the proxy accepted it.
func (c *Client) CheckConnection(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return StatusTimeout
		}
		return StatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return StatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return StatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return StatusTimeout
		}
		return StatusWrongType
	}
	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept || resp[1] != socks5AuthNone {
		return StatusWrongType
	}
	return StatusOK
}

// Package webapi implements the low-level DEGIRO web API protocol: login with
// optional TOTP challenge, session enrichment, and the authenticated request
// layer every endpoint call goes through.
package webapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production API entry point.
const DefaultBaseURL = "https://trader.degiro.nl"

// HttpClient is the transport capability the protocol layer calls. The
// default is a plain *http.Client; tests inject fakes.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client speaks the web API protocol. It holds no session state of its own;
// sessions are passed to each call, so one Client can serve many sessions.
type Client struct {
	http    HttpClient
	baseURL string
	logger  zerolog.Logger
	clock   func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Connection pooling, TLS and proxies
// belong to the injected client.
func WithHTTPClient(h HttpClient) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the API entry point.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the time source used for the TOTP challenge.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a web API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
		logger:  zerolog.Nop(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

package remote

import (
	"net/http"
	"time"

	"github.com/okian/summitgap/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every GET issued by the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCompletesURL sets the base of the completes endpoint.
func WithCompletesURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.completesURL = u
		}
	}
}

// WithSummitsURL sets the base of the regions endpoint.
func WithSummitsURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.summitsURL = u
		}
	}
}

// WithS2SURL sets the base of the summit-to-summit completes endpoint.
func WithS2SURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.s2sURL = u
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

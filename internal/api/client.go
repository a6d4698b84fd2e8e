// Package api implements the HTTP client for the Healthguru chat service.
package api

import (
	"fmt"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/dmelo/healthguru/internal/config"
)

// doer is the slice of tls_client.HttpClient the client needs. Narrowing it
// keeps the transport injectable in tests.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Healthguru service.
type Client struct {
	httpClient doer
	baseURL    string
	session    *config.Session

	mu     sync.RWMutex
	closed bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithSession attaches the web session cookie to every request.
func WithSession(sess *config.Session) ClientOption {
	return func(c *Client) {
		c.session = sess
	}
}

// WithHTTPClient replaces the transport. Used by tests.
func WithHTTPClient(d doer) ClientOption {
	return func(c *Client) {
		c.httpClient = d
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	client := &Client{baseURL: baseURL}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Chrome profile so the client looks like the web UI to whatever
		// sits in front of the service.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(300),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close marks the client closed. Further requests fail fast.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed reports whether Close has been called.
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// Package fetch retrieves the upstream user.js over HTTP.
package fetch

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prefsync-dev/prefsync/internal/branding"
)

// NetworkError wraps any transport failure from the upstream fetch. The
// workflow treats it as fatal; there is no retry logic.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client downloads the canonical script from a fixed URL. No auth, no
// request parameters.
type Client struct {
	url        string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing, or for
// callers that want a timeout; the client itself imposes none).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) {
		f.httpClient = c
	}
}

// New creates a Client that fetches from url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the upstream URL this client was created with.
func (c *Client) URL() string {
	return c.url
}

// Script performs a single GET of the upstream resource and returns its
// body as UTF-8 text. Any transport failure or non-2xx status yields a
// *NetworkError.
func (c *Client) Script() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-updater")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{Err: fmt.Errorf("upstream returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	return string(body), nil
}

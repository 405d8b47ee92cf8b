// Package http talks to the city's facility site and to the schedule upload
// API over plain HTTP.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ottawa-dropin/dropin"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// userAgent is sent with page requests; the facility site rejects Go's default.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Ensure Fetcher implements dropin.Fetcher at compile time.
var _ dropin.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page HTML with plain GET requests. It does not execute
// JavaScript and suits facility pages whose tables are server-rendered.
type Fetcher struct {
	client *resty.Client
}

// Option configures a Fetcher.
type Option func(*resty.Client)

// WithTimeout sets the timeout for page requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(DefaultFetchTimeout)
	for _, opt := range opts {
		opt(client)
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the HTML content from the given URL.
// Any status other than 200 is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != http.StatusOK {
		return "", dropin.Errorf(dropin.EINTERNAL, "HTTP %d for %s", res.StatusCode(), url)
	}
	return res.String(), nil
}

// Close releases resources. The underlying client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}

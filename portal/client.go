// Package portal fetches pages from the university's legacy class portal.
// The portal is a set of server-rendered forms; every page is reached by a
// GET of the form page or a POST of its fields.
package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is returned when the portal answers with a non-2xx
// status.
var ErrUnexpectedStatus = errors.New("unexpected status from portal")

// Fetcher returns the HTML of a portal page. A nil or empty form means GET;
// otherwise the form is POSTed url-encoded.
type Fetcher interface {
	Fetch(ctx context.Context, target string, form map[string]string) (string, error)
}

// Options configures a Client.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultOptions are used for any zero field of Options.
var DefaultOptions = Options{
	UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	Timeout:           30 * time.Second,
	RequestsPerSecond: 2,
	Burst:             2,
}

// Client is the resty-backed Fetcher.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient builds a rate limited client.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions.UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions.Timeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultOptions.RequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultOptions.Burst
	}

	httpClient := resty.New()
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)

	// burst >= 1 means requests wait for a token rather than being dropped
	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient, limiter: limiter}
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, target string, form map[string]string) (string, error) {
	req := c.http.R().SetContext(ctx)

	var res *resty.Response
	var err error
	if len(form) == 0 {
		res, err = req.Get(target)
	} else {
		res, err = req.SetFormData(form).Post(target)
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, target, res.StatusCode())
	}

	return res.String(), nil
}

package notion

import (
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is Notion's documented average request rate.
	DefaultRequestsPerSecond = 3.0

	// DefaultBurst is the number of requests allowed back to back.
	DefaultBurst = 3

	// DefaultRetries is the number of retries notionapi makes on 429 responses.
	DefaultRetries = 3
)

// Client wraps the notionapi client with request throttling.
type Client struct {
	api   *notionapi.Client
	nulls *nullNumbers
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	rps        float64
	burst      int
	retries    int
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped,
// not replaced.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithRateLimit overrides the request rate and burst.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(o *clientOptions) {
		o.rps = requestsPerSecond
		o.burst = burst
	}
}

// WithRetries sets how many times a rate limited request is retried.
func WithRetries(n int) Option {
	return func(o *clientOptions) { o.retries = n }
}

// NewClient creates a Notion client authenticated with an integration token.
func NewClient(token string, opts ...Option) *Client {
	o := clientOptions{
		rps:     DefaultRequestsPerSecond,
		burst:   DefaultBurst,
		retries: DefaultRetries,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := http.DefaultTransport
	timeout := DefaultTimeout
	if o.httpClient != nil {
		if o.httpClient.Transport != nil {
			base = o.httpClient.Transport
		}
		if o.httpClient.Timeout > 0 {
			timeout = o.httpClient.Timeout
		}
	}

	nulls := newNullNumbers()
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &nullNumberTransport{
			base: &throttledTransport{
				base:    base,
				limiter: rate.NewLimiter(rate.Limit(o.rps), o.burst),
			},
			nulls: nulls,
		},
	}

	return &Client{
		nulls: nulls,
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithHTTPClient(httpClient),
			notionapi.WithRetry(o.retries),
		),
	}
}

// throttledTransport waits on a token bucket before every request.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// Package dhus is a client for the Copernicus Data Hub (DHuS) OpenSearch and OData APIs.
package dhus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/metrics"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
	"github.com/kailas-cloud/sentinelsearch/internal/version"
)

// DefaultURL is the public Copernicus Open Access Hub API endpoint.
const DefaultURL = "https://scihub.copernicus.eu/apihub/"

const maxErrorBody = 4096

// Config holds the catalog connection settings.
type Config struct {
	URL      string
	User     string
	Password string

	Timeout         time.Duration // per API request
	DownloadTimeout time.Duration // per product archive
	PageSize        int

	DownloadAttempts int
	RetryDelay       time.Duration

	Logger *zap.Logger
}

// Client talks to one DHuS instance.
type Client struct {
	base       *url.URL
	user       string
	password   string
	api        *http.Client
	downloads  *http.Client
	pageSize   int
	attempts   int
	retryDelay time.Duration
	clock      clock.Clock
	bars       progress.Factory
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for API calls and downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.api = hc
		c.downloads = hc
	}
}

// WithProgress reports query paging and download progress to host.
func WithProgress(host progress.Host) Option {
	return func(c *Client) {
		c.bars = progress.Factory{Host: host}
	}
}

// WithClock sets the clock used between download attempts.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clock = clk
	}
}

// New creates a client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := cfg.URL
	if raw == "" {
		raw = DefaultURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("dhus: parse url %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("dhus: url %q must be http or https", raw)
	}

	c := &Client{
		base:       base,
		user:       cfg.User,
		password:   cfg.Password,
		api:        &http.Client{Timeout: orDefault(cfg.Timeout, 60*time.Second)},
		downloads:  &http.Client{Timeout: orDefault(cfg.DownloadTimeout, 2*time.Hour)},
		pageSize:   cfg.PageSize,
		attempts:   cfg.DownloadAttempts,
		retryDelay: orDefault(cfg.RetryDelay, 5*time.Second),
		clock:      clock.WallClock,
		logger:     cfg.Logger,
	}
	if c.pageSize <= 0 || c.pageSize > 100 {
		c.pageSize = 100
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// endpoint resolves a path relative to the hub root and attaches an encoded query.
func (c *Client) endpoint(path, rawQuery string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + path
	// Keep OData key syntax ('(', ')', '\'', '$') literal when it is valid.
	u.RawPath = u.Path
	u.RawQuery = rawQuery
	return u.String()
}

// get performs an authenticated GET and returns the response for 2xx answers.
// The caller closes the body.
func (c *Client) get(ctx context.Context, hc *http.Client, target string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("User-Agent", version.UserAgent())
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: parseErrorBody(body)}
	}
	return resp, nil
}

// observe records metrics and a debug line for one catalog operation.
func (c *Client) observe(op string, start time.Time, err error) {
	dur := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.CatalogRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.CatalogRequestDuration.WithLabelValues(op).Observe(dur.Seconds())

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Debug("catalog operation failed",
			zap.String("op", op),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("catalog operation completed",
		zap.String("op", op),
		zap.Duration("duration", dur),
	)
}

package sentinelsearch

import (
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option configures a Runner.
type Option interface {
	apply(*runnerConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*runnerConfig)

func (f optionFunc) apply(c *runnerConfig) { f(c) }

type runnerConfig struct {
	host         Host
	consoleLevel zapcore.Level
	logger       *zap.Logger

	catalog    Catalog
	httpClient *http.Client
	clock      clock.Clock

	timeout          time.Duration
	downloadTimeout  time.Duration
	pageSize         int
	downloadAttempts int
	retryDelay       time.Duration

	metricsReg prometheus.Registerer
}

// WithHost reports progress, log lines and result layers to h.
func WithHost(h Host) Option {
	return optionFunc(func(c *runnerConfig) {
		c.host = h
	})
}

// WithConsoleLevel sets the lowest level forwarded to the host console.
// Default: info.
func WithConsoleLevel(lvl zapcore.Level) Option {
	return optionFunc(func(c *runnerConfig) {
		c.consoleLevel = lvl
	})
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *runnerConfig) {
		c.logger = l
	})
}

// WithCatalog replaces the DHuS client built from the run parameters.
func WithCatalog(cat Catalog) Option {
	return optionFunc(func(c *runnerConfig) {
		c.catalog = cat
	})
}

// WithHTTPClient sets the HTTP client of the DHuS catalog client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *runnerConfig) {
		c.httpClient = hc
	})
}

// WithClock sets the clock used to wait between download attempts.
func WithClock(clk clock.Clock) Option {
	return optionFunc(func(c *runnerConfig) {
		c.clock = clk
	})
}

// WithTimeouts sets the per-request and per-download HTTP timeouts.
// Defaults: 60s and 2h.
func WithTimeouts(request, download time.Duration) Option {
	return optionFunc(func(c *runnerConfig) {
		c.timeout = request
		c.downloadTimeout = download
	})
}

// WithPageSize sets the number of rows per catalog search page (max 100).
func WithPageSize(n int) Option {
	return optionFunc(func(c *runnerConfig) {
		c.pageSize = n
	})
}

// WithDownloadRetry sets how often a product download is attempted and the
// delay between attempts. Defaults: 3 attempts, 5s.
func WithDownloadRetry(attempts int, delay time.Duration) Option {
	return optionFunc(func(c *runnerConfig) {
		c.downloadAttempts = attempts
		c.retryDelay = delay
	})
}

// WithPrometheus registers run metrics (run counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *runnerConfig) {
		c.metricsReg = reg
	})
}

package sentinelsearch

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// runMetrics holds prometheus metrics registered for runs.
type runMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newRunMetrics(reg prometheus.Registerer) (*runMetrics, error) {
	m := &runMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinelsearch",
			Subsystem: "run",
			Name:      "total",
			Help:      "Total runs by dispatch mode and status.",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentinelsearch",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Run duration in seconds.",
			Buckets:   []float64{0.5, 1, 5, 15, 60, 300, 900, 3600, 7200},
		}, []string{"mode"}),
	}
	if err := registerOrReuse(reg, &m.runs); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("sentinelsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("sentinelsearch: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for runs.
type observer struct {
	logger  *zap.Logger
	metrics *runMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *runMetrics
	if reg != nil {
		var err error
		m, err = newRunMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(mode string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	if mode == "" {
		mode = "none"
	}

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.runs.WithLabelValues(mode, status).Inc()
		o.metrics.duration.WithLabelValues(mode).Observe(dur.Seconds())
	}

	if err != nil {
		o.logger.Debug("run failed",
			zap.String("mode", mode),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}
	o.logger.Debug("run completed",
		zap.String("mode", mode),
		zap.Duration("duration", dur),
	)
}

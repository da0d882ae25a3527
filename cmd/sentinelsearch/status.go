package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch"
	"github.com/kailas-cloud/sentinelsearch/internal/config"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
	"github.com/kailas-cloud/sentinelsearch/internal/transport/chi"
	"github.com/kailas-cloud/sentinelsearch/internal/transport/dhus"
	healthuc "github.com/kailas-cloud/sentinelsearch/internal/usecase/health"
)

// runState tells /health whether a run is in flight.
type runState struct {
	atomic.Bool
}

func (s *runState) Running() bool { return s.Load() }

// startStatusServer serves the status endpoints on addr until the returned
// shutdown func is called.
func startStatusServer(
	addr string,
	cfg config.Config,
	params sentinelsearch.Parameters,
	rec *progress.Recorder,
	state *runState,
	logger *zap.Logger,
) (func(), error) {
	pinger, err := dhus.New(dhus.Config{
		URL:      params.URL,
		User:     params.User,
		Password: params.Password,
		Timeout:  time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		Logger:   logger.Named("health"),
	})
	if err != nil {
		return nil, fmt.Errorf("create health pinger: %w", err)
	}

	server := chi.NewServer(healthuc.New(pinger, state), rec, logger.Named("status"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(cfg.Status.APIKeys),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	go func() {
		logger.Info("Starting status server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server error", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Status.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during status server shutdown", zap.Error(err))
		}
		logger.Info("Status server stopped")
	}, nil
}

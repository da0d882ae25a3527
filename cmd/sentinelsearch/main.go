package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch"
	"github.com/kailas-cloud/sentinelsearch/internal/config"
	"github.com/kailas-cloud/sentinelsearch/internal/logger"
	"github.com/kailas-cloud/sentinelsearch/internal/metrics"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
	"github.com/kailas-cloud/sentinelsearch/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "sentinelsearch",
		Usage:   "Search, inspect and download Sentinel products from a Copernicus data hub",
		Version: version.Version,
		Flags:   commandFlags(),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := stringOr(cmd.String(flagConfigEnv), config.GetEnv())
	cfg, err := config.Load(env)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		return err //nolint:wrapcheck // config errors name the file
	}

	log, err := logger.NewLogger(env, stringOr(cmd.String(flagLogLevel), cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	consoleLevel, err := logger.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		return err //nolint:wrapcheck // names the level
	}

	params, err := paramsFromCommand(cmd, cfg)
	if err != nil {
		return err
	}

	log.Info("Starting sentinelsearch",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("url", params.URL),
	)

	metrics.RegisterCatalogMetrics()
	if err := metrics.RegisterHTTPMetrics(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	rec := progress.NewRecorder(cfg.Status.TailLines)
	host := progress.Multi(rec, progress.NewTerminal(os.Stderr))

	state := &runState{}
	if addr := stringOr(cmd.String(flagStatusAddr), cfg.Status.Addr); addr != "" {
		shutdown, err := startStatusServer(addr, cfg, params, rec, state, log)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	state.Store(true)
	res, err := sentinelsearch.Run(ctx, params,
		sentinelsearch.WithHost(host),
		sentinelsearch.WithLogger(log),
		sentinelsearch.WithConsoleLevel(consoleLevel),
		sentinelsearch.WithTimeouts(
			time.Duration(cfg.Catalog.TimeoutSec)*time.Second,
			time.Duration(cfg.Catalog.DownloadTimeoutSec)*time.Second,
		),
		sentinelsearch.WithPageSize(cfg.Catalog.PageSize),
		sentinelsearch.WithDownloadRetry(
			cfg.Catalog.DownloadAttempts,
			time.Duration(cfg.Catalog.RetryDelaySec)*time.Second,
		),
		sentinelsearch.WithPrometheus(prometheus.DefaultRegisterer),
	)
	state.Store(false)
	if err != nil {
		return err //nolint:wrapcheck // run errors carry their own context
	}

	fields := []zap.Field{zap.String("mode", res.Mode)}
	if res.Products != nil {
		fields = append(fields, zap.Int("products", res.Products.Len()))
	}
	if res.Downloads != nil {
		fields = append(fields,
			zap.Int("downloaded", len(res.Downloads.Succeeded)),
			zap.Int("failed", len(res.Downloads.Failed)),
		)
	}
	log.Info("Run finished", fields...)
	return nil
}

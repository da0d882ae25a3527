package sentinelsearch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/sentinelsearch/internal/logger"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
	"github.com/kailas-cloud/sentinelsearch/internal/transport/dhus"
	"github.com/kailas-cloud/sentinelsearch/internal/usecase/geometry"
	"github.com/kailas-cloud/sentinelsearch/internal/usecase/report"
	"github.com/kailas-cloud/sentinelsearch/internal/usecase/search"
)

// Runner executes search runs against one host. The host console is attached to the
// logger once, when the Runner is created.
type Runner struct {
	cfg    runnerConfig
	host   progress.Host
	logger *zap.Logger
	obs    *observer
	shapes geometry.ExtentReader
	files  geometry.FileReader
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) (*Runner, error) {
	cfg := runnerConfig{consoleLevel: zapcore.InfoLevel}
	for _, o := range opts {
		o.apply(&cfg)
	}

	l := cfg.logger
	if l == nil {
		l = zap.NewNop()
	}
	var host progress.Host = progress.Nop{}
	if cfg.host != nil {
		host = cfg.host
		l = logger.NewConsoleSink(cfg.host, cfg.consoleLevel).Attach(l)
	}

	obs, err := newObserver(l, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, host: host, logger: l, obs: obs}, nil
}

// Run executes one run with a Runner built from opts.
func Run(ctx context.Context, p Parameters, opts ...Option) (Result, error) {
	r, err := NewRunner(opts...)
	if err != nil {
		return Result{}, err
	}
	return r.Run(ctx, p)
}

// Run validates p, resolves the area, dispatches the search and reports the results.
// A written footprint file is handed to the host layer loader.
func (r *Runner) Run(ctx context.Context, p Parameters) (res Result, err error) {
	start := time.Now()
	defer func() { r.obs.observe(res.Mode, start, err) }()

	if err := p.Validate(); err != nil {
		return Result{}, err //nolint:wrapcheck // domain error names the parameter
	}
	r.logger.Debug("run parameters", zap.Object("params", paramsMarshaler(p)))

	catalog, err := r.catalog(p)
	if err != nil {
		return Result{}, err
	}

	area, err := geometry.New(r.shapes, r.files, r.logger).Resolve(geometry.Input{
		Shapefile: p.Shapefile,
		Extent:    p.Extent,
		GeoJSON:   p.GeoJSON,
	})
	if err != nil {
		return Result{}, fmt.Errorf("resolve area: %w", err)
	}

	found, err := search.New(catalog, r.logger).Dispatch(ctx, p, area)
	if err != nil {
		return Result{}, err //nolint:wrapcheck // dispatcher wraps with context
	}
	res = Result{Mode: string(found.Mode), Products: found.Products}

	out, err := report.New(catalog, r.logger).Report(ctx, found.Products, report.Options{
		Download:   p.Download,
		Footprints: p.Footprints,
		Dir:        p.Path,
		ByID:       found.Mode == search.ModeUUID,
	})
	res.FootprintsPath = out.FootprintsPath
	res.ManifestPath = out.ManifestPath
	res.Downloads = out.Downloads
	if err != nil {
		return res, fmt.Errorf("report results: %w", err)
	}

	if res.FootprintsPath != "" {
		if lerr := r.host.LoadLayer(res.FootprintsPath); lerr != nil {
			r.logger.Warn("footprint layer not loaded",
				zap.String("path", res.FootprintsPath),
				zap.Error(lerr),
			)
		}
	}
	return res, nil
}

// catalog returns the configured catalog or a DHuS client for p.
func (r *Runner) catalog(p Parameters) (Catalog, error) {
	if r.cfg.catalog != nil {
		return r.cfg.catalog, nil
	}
	opts := []dhus.Option{dhus.WithProgress(r.host)}
	if r.cfg.httpClient != nil {
		opts = append(opts, dhus.WithHTTPClient(r.cfg.httpClient))
	}
	if r.cfg.clock != nil {
		opts = append(opts, dhus.WithClock(r.cfg.clock))
	}
	c, err := dhus.New(dhus.Config{
		URL:              p.URL,
		User:             p.User,
		Password:         p.Password,
		Timeout:          r.cfg.timeout,
		DownloadTimeout:  r.cfg.downloadTimeout,
		PageSize:         r.cfg.pageSize,
		DownloadAttempts: r.cfg.downloadAttempts,
		RetryDelay:       r.cfg.retryDelay,
		Logger:           r.logger,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	return c, nil
}

// paramsMarshaler logs parameters without the password.
type paramsMarshaler Parameters

func (p paramsMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("user", p.User)
	enc.AddString("url", p.URL)
	addIf := func(k, v string) {
		if v != "" {
			enc.AddString(k, v)
		}
	}
	addIf("start", p.Start)
	addIf("end", p.End)
	addIf("sentinel", string(p.Constellation))
	addIf("instrument", string(p.Instrument))
	addIf("producttype", string(p.ProductType))
	addIf("extent", p.Extent)
	addIf("shapefile", p.Shapefile)
	addIf("geojson", p.GeoJSON)
	addIf("uuid", p.UUID)
	addIf("name", p.Name)
	addIf("query", p.Query)
	addIf("orderby", p.OrderBy)
	addIf("path", p.Path)
	enc.AddInt("cloud", p.Cloud)
	enc.AddInt("limit", p.Limit)
	enc.AddBool("download", p.Download)
	enc.AddBool("footprints", p.Footprints)
	return nil
}

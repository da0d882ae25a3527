package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain/geo"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
)

// Output file names, relative to the output directory.
const (
	FootprintsFile = "search_footprints.geojson"
	ManifestFile   = "corrupt_scenes.txt"
)

// Options selects what a report produces.
type Options struct {
	Download   bool
	Footprints bool
	Dir        string
	// ByID marks result sets from a UUID lookup; their summary lines show title and size.
	ByID bool
}

// Outcome lists what a report produced.
type Outcome struct {
	FootprintsPath string // "" when no footprint file was written
	ManifestPath   string // "" when every download succeeded
	Downloads      *product.DownloadReport
}

// Service turns a result set into files, downloads or log lines.
type Service struct {
	downloader Downloader
	logger     *zap.Logger
}

// New creates a reporter.
func New(downloader Downloader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{downloader: downloader, logger: logger}
}

// Report writes footprints and/or downloads rs as opts asks. With neither requested it
// logs one line per product and the total size.
func (s *Service) Report(ctx context.Context, rs *product.ResultSet, opts Options) (Outcome, error) {
	var out Outcome

	if opts.Footprints {
		path, err := s.WriteFootprints(rs, opts.Dir)
		if err != nil {
			return out, err
		}
		out.FootprintsPath = path
	}

	if opts.Download {
		rep, err := s.downloader.DownloadAll(ctx, rs, opts.Dir)
		if err != nil {
			return out, fmt.Errorf("download products: %w", err)
		}
		out.Downloads = &rep
		if len(rep.Failed) > 0 {
			path, err := s.WriteManifest(rs, rep.Failed, opts.Dir)
			if err != nil {
				return out, err
			}
			out.ManifestPath = path
			s.logger.Warn("some products failed to download",
				zap.Int("failed", len(rep.Failed)),
				zap.String("manifest", path),
			)
		}
	}

	if !opts.Download && !opts.Footprints {
		s.Summarize(rs, opts.ByID)
	}
	return out, nil
}

// WriteFootprints writes rs as a GeoJSON feature collection into dir and returns the path.
func (s *Service) WriteFootprints(rs *product.ResultSet, dir string) (string, error) {
	fc, err := geo.FeatureCollection(rs)
	if err != nil {
		return "", fmt.Errorf("build footprints: %w", err)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("encode footprints: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FootprintsFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write footprints: %w", err)
	}
	s.logger.Info("footprints written", zap.String("path", path), zap.Int("features", rs.Len()))
	return path, nil
}

// WriteManifest writes one "id : title" line per failed product into dir.
func (s *Service) WriteManifest(rs *product.ResultSet, failed []string, dir string) (path string, err error) {
	path = filepath.Join(dir, ManifestFile)
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close manifest: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, id := range failed {
		p, _ := rs.Get(id)
		if _, err := fmt.Fprintf(w, "%s : %s\n", id, p.Title); err != nil {
			return "", fmt.Errorf("write manifest: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Summarize logs the human-readable result listing.
func (s *Service) Summarize(rs *product.ResultSet, byID bool) {
	log := s.logger.Sugar()
	for _, p := range rs.Products() {
		if byID {
			log.Infof("Product %s - %s - %.2f MB", p.ID, p.Title, p.SizeMB())
		} else {
			log.Infof("Product %s - %s", p.ID, p.Summary)
		}
	}
	log.Info("---")
	log.Infof("%d scenes found with a total size of %.2f GB", rs.Len(), rs.TotalSizeGB())
}

package geometry

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain/geo"
)

// Input names the area sources a run may carry. Empty fields are absent.
type Input struct {
	Shapefile string
	Extent    string
	GeoJSON   string
}

// Service resolves the area of interest to WKT.
type Service struct {
	shapes ExtentReader
	files  FileReader
	logger *zap.Logger
}

// New creates a resolver. Nil readers fall back to the filesystem implementations.
func New(shapes ExtentReader, files FileReader, logger *zap.Logger) *Service {
	if shapes == nil {
		shapes = Shapefile{}
	}
	if files == nil {
		files = OSFiles{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{shapes: shapes, files: files, logger: logger}
}

// Resolve returns the WKT area for in, or "" when no area is given.
// A shapefile wins over an extent string, which wins over a GeoJSON file.
func (s *Service) Resolve(in Input) (string, error) {
	switch {
	case strings.TrimSpace(in.Shapefile) != "":
		ext, err := s.shapes.Extent(in.Shapefile)
		if err != nil {
			return "", err //nolint:wrapcheck // reader errors carry the path
		}
		s.logExtent("shapefile", ext)
		return ext.WKT(), nil

	case strings.TrimSpace(in.Extent) != "":
		ext, err := geo.ParseExtent(in.Extent)
		if err != nil {
			return "", fmt.Errorf("parse extent: %w", err)
		}
		s.logExtent("extent", ext)
		return ext.WKT(), nil

	case strings.TrimSpace(in.GeoJSON) != "":
		data, err := s.files.ReadFile(in.GeoJSON)
		if err != nil {
			return "", fmt.Errorf("read geojson %s: %w", in.GeoJSON, err)
		}
		area, err := geo.GeoJSONToWKT(data)
		if err != nil {
			return "", fmt.Errorf("geojson %s: %w", in.GeoJSON, err)
		}
		s.logger.Debug("area resolved", zap.String("source", "geojson"), zap.String("wkt", area))
		return area, nil
	}
	return "", nil
}

func (s *Service) logExtent(source string, ext geo.Extent) {
	if !ext.IsGeographic() {
		s.logger.Warn("area extent is outside longitude/latitude bounds, the catalog expects EPSG:4326",
			zap.String("source", source))
	}
	s.logger.Debug("area resolved", zap.String("source", source), zap.String("wkt", ext.WKT()))
}

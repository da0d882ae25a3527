package geometry

import (
	"fmt"
	"os"

	"github.com/jonas-p/go-shp"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/geo"
)

// Shapefile reads extents from ESRI shapefiles.
type Shapefile struct{}

// Extent returns the bounding box stored in the shapefile header.
func (Shapefile) Extent(path string) (geo.Extent, error) {
	r, err := shp.Open(path)
	if err != nil {
		return geo.Extent{}, fmt.Errorf("%w: open shapefile %s: %w", domain.ErrGeometryIO, path, err)
	}
	defer func() { _ = r.Close() }()

	box := r.BBox()
	return geo.Extent{MinX: box.MinX, MaxX: box.MaxX, MinY: box.MinY, MaxY: box.MaxY}, nil
}

// OSFiles reads files from the local filesystem.
type OSFiles struct{}

// ReadFile reads path, wrapping failures in domain.ErrGeometryIO.
func (OSFiles) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied area file
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeometryIO, err)
	}
	return data, nil
}

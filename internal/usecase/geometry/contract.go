package geometry

import "github.com/kailas-cloud/sentinelsearch/internal/domain/geo"

// ExtentReader reads the bounding extent of a vector layer file.
type ExtentReader interface {
	Extent(path string) (geo.Extent, error)
}

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

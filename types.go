package sentinelsearch

import (
	"context"

	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

type (
	// Parameters are the host form values of one run.
	Parameters = query.Parameters
	// Constellation selects a Sentinel mission.
	Constellation = query.Constellation
	// Instrument selects a sensor.
	Instrument = query.Instrument
	// ProductType selects a processing level.
	ProductType = query.ProductType
	// Request is a rendered catalog search.
	Request = query.Request

	// Product is one catalog granule.
	Product = product.Product
	// ResultSet is an ordered id → Product map.
	ResultSet = product.ResultSet
	// DownloadReport partitions a bulk download into succeeded and failed ids.
	DownloadReport = product.DownloadReport
)

// Constellations.
const (
	ConstellationAny = query.ConstellationAny
	Sentinel1        = query.Sentinel1
	Sentinel2        = query.Sentinel2
	Sentinel3        = query.Sentinel3
)

// Instruments.
const (
	InstrumentAny = query.InstrumentAny
	MSI           = query.MSI
	SARC          = query.SARC
	SLSTR         = query.SLSTR
	OLCI          = query.OLCI
	SRAL          = query.SRAL
)

// Product types.
const (
	ProductTypeAny = query.ProductTypeAny
	SLC            = query.SLC
	GRD            = query.GRD
	OCN            = query.OCN
	RAW            = query.RAW
	S2MSI1C        = query.S2MSI1C
	S2MSI2Ap       = query.S2MSI2Ap
)

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet { return product.NewResultSet() }

// Host is the UI a run reports to: a progress widget, a log console and a layer loader.
type Host interface {
	SetPercentage(pct float64)
	SetConsoleInfo(line string) error
	LoadLayer(path string) error
}

// Catalog is the product catalog a run talks to.
type Catalog interface {
	Query(ctx context.Context, req Request) (*ResultSet, error)
	Product(ctx context.Context, id string) (Product, error)
	DownloadAll(ctx context.Context, rs *ResultSet, dir string) (DownloadReport, error)
}

// Result is the outcome of a run.
type Result struct {
	// Mode is "uuid", "name" or "query".
	Mode           string
	Products       *ResultSet
	FootprintsPath string
	ManifestPath   string
	Downloads      *DownloadReport
}

package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
)

// Limits of the numeric host parameters.
const (
	MaxCloud = 100
	MaxLimit = 100000
)

// Parameters are the host form values of one search run.
// Empty strings and zero numbers mean the parameter is absent.
type Parameters struct {
	User     string
	Password string
	URL      string

	Start string
	End   string

	Constellation Constellation
	Instrument    Instrument
	ProductType   ProductType
	Cloud         int

	Extent    string // "xmin,xmax,ymin,ymax"
	Shapefile string
	GeoJSON   string

	UUID  string // comma-separated
	Name  string
	Query string // comma-separated key=value
	Limit int

	OrderBy    string
	Download   bool
	Footprints bool
	Path       string
}

// Validate checks values that can be rejected without touching the network.
func (p Parameters) Validate() error {
	if p.User == "" {
		return fmt.Errorf("%w: user is required", domain.ErrInvalidParameter)
	}
	if p.Cloud < 0 || p.Cloud > MaxCloud {
		return fmt.Errorf("%w: cloud must be between 0 and %d, got %d", domain.ErrInvalidParameter, MaxCloud, p.Cloud)
	}
	if p.Limit < 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d, got %d", domain.ErrInvalidParameter, MaxLimit, p.Limit)
	}
	if (p.Download || p.Footprints) && p.Path == "" {
		return fmt.Errorf("%w: path is required to download or write footprints", domain.ErrInvalidParameter)
	}
	return nil
}

// UUIDs splits the UUID parameter into trimmed, non-empty ids.
func (p Parameters) UUIDs() []string {
	if strings.TrimSpace(p.UUID) == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(p.UUID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

package search

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

// BuildFilters maps host parameters and the resolved area to catalog filters.
//
// Structured parameters always win over the free-form extra query: an extra key that
// collides with a derived filter is dropped and logged.
func BuildFilters(p query.Parameters, area string, logger *zap.Logger) (*query.Filters, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := query.NewFilters()

	if !p.Constellation.IsAny() && p.ProductType.IsAny() && p.Instrument.IsAny() {
		f.Set(query.KeyPlatform, query.Term(p.Constellation.PlatformName()))
	}
	if !p.Instrument.IsAny() && p.ProductType.IsAny() {
		f.Set(query.KeyInstrument, query.Term(string(p.Instrument)))
	}
	if !p.ProductType.IsAny() {
		f.Set(query.KeyProductType, query.Term(string(p.ProductType)))
	}

	if p.Cloud > 0 {
		if !p.Constellation.SupportsCloudCover() {
			return nil, fmt.Errorf("%w: got constellation %q", domain.ErrCloudCoverUnsupported, p.Constellation)
		}
		f.Set(query.KeyCloudCover, query.Range("0", strconv.Itoa(p.Cloud)))
	}

	if area != "" {
		f.Set(query.KeyFootprint, query.Term("Intersects(" + area + ")"))
	}
	if p.Name != "" {
		f.Set(query.KeyIdentifier, query.Term(p.Name))
	}

	extra, err := query.ParseExtra(p.Query)
	if err != nil {
		return nil, err //nolint:wrapcheck // already names the entry
	}
	for _, kv := range extra {
		if !f.SetIfAbsent(kv.Key, query.Term(kv.Value)) {
			existing, _ := f.Get(kv.Key)
			logger.Warn("extra query key overridden by search parameters",
				zap.String("key", kv.Key),
				zap.String("dropped", kv.Value),
				zap.String("kept", existing.String()),
			)
		}
	}
	return f, nil
}

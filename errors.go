package sentinelsearch

import "github.com/kailas-cloud/sentinelsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidParameter      = domain.ErrInvalidParameter
	ErrCloudCoverUnsupported = domain.ErrCloudCoverUnsupported
	ErrGeometryIO            = domain.ErrGeometryIO
	ErrInvalidGeometry       = domain.ErrInvalidGeometry
	ErrProductNotFound       = domain.ErrProductNotFound
	ErrCatalog               = domain.ErrCatalog
	ErrChecksumMismatch      = domain.ErrChecksumMismatch
)

package domain

import "errors"

var (
	// ErrInvalidParameter signals a host parameter that cannot be mapped to a query.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrCloudCoverUnsupported signals a cloud cover filter on a constellation without cloud metadata.
	ErrCloudCoverUnsupported = errors.New("cloud cover is only supported for Sentinel 2 and 3")
	// ErrGeometryIO signals an unreadable geometry source.
	ErrGeometryIO = errors.New("geometry read failed")
	// ErrInvalidGeometry signals a geometry that cannot be turned into WKT.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrProductNotFound signals an id the catalog does not know.
	ErrProductNotFound = errors.New("product not found")
	// ErrCatalog signals a catalog failure other than a missing product.
	ErrCatalog = errors.New("catalog error")
	// ErrChecksumMismatch signals a downloaded file that failed checksum validation.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

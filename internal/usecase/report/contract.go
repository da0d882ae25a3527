package report

import (
	"context"

	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
)

// Downloader fetches product archives into a directory.
type Downloader interface {
	DownloadAll(ctx context.Context, rs *product.ResultSet, dir string) (product.DownloadReport, error)
}

package search

import (
	"context"

	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

// Catalog runs searches and metadata lookups against the product catalog.
type Catalog interface {
	Query(ctx context.Context, req query.Request) (*product.ResultSet, error)
	Product(ctx context.Context, id string) (product.Product, error)
}

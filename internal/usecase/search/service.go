package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

// Mode tells which branch produced a result set.
type Mode string

const (
	// ModeUUID is a lookup of explicit product ids.
	ModeUUID Mode = "uuid"
	// ModeName is an identifier pattern search without a date range.
	ModeName Mode = "name"
	// ModeQuery is a filtered search over a sensing date range.
	ModeQuery Mode = "query"
)

// Result is the outcome of one dispatch.
type Result struct {
	Mode     Mode
	Products *product.ResultSet
}

// Service dispatches a run to a UUID lookup, a name search or a date query.
type Service struct {
	catalog Catalog
	logger  *zap.Logger
}

// New creates a search service.
func New(catalog Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, logger: logger}
}

// Dispatch runs the search selected by p. UUIDs win over a name pattern, which wins
// over the date query. area is the resolved WKT area or "".
//
// Filters are built for every mode so parameter errors abort before any catalog call.
func (s *Service) Dispatch(ctx context.Context, p query.Parameters, area string) (Result, error) {
	filters, err := BuildFilters(p, area, s.logger)
	if err != nil {
		return Result{}, err
	}

	if ids := p.UUIDs(); len(ids) > 0 {
		rs, err := s.lookup(ctx, ids)
		if err != nil {
			return Result{}, err
		}
		return Result{Mode: ModeUUID, Products: rs}, nil
	}

	req := query.Request{Filters: filters, OrderBy: p.OrderBy, Limit: p.Limit}
	mode := ModeName

	if p.Name == "" {
		mode = ModeQuery
		start, end := p.Start, p.End
		if start == "" {
			start = query.DefaultStart
		}
		if end == "" {
			end = query.DefaultEnd
		}
		if req.Start, err = query.NormalizeDate(start); err != nil {
			return Result{}, fmt.Errorf("start date: %w", err)
		}
		if req.End, err = query.NormalizeDate(end); err != nil {
			return Result{}, fmt.Errorf("end date: %w", err)
		}
	}

	s.logger.Debug("querying catalog",
		zap.String("mode", string(mode)),
		zap.String("q", req.Query()),
		zap.Int("limit", req.Limit),
	)
	rs, err := s.catalog.Query(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("query catalog: %w", err)
	}
	return Result{Mode: mode, Products: rs}, nil
}

// lookup fetches each id in order. Unknown or malformed ids are logged and skipped.
func (s *Service) lookup(ctx context.Context, ids []string) (*product.ResultSet, error) {
	rs := product.NewResultSet()
	log := s.logger.Sugar()
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			log.Infof("No product with ID '%s' exists on server", id)
			continue
		}
		p, err := s.catalog.Product(ctx, id)
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Infof("No product with ID '%s' exists on server", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", id, err)
		}
		rs.Add(p)
	}
	return rs, nil
}

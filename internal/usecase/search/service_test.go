package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
)

const (
	validID   = "8df46c9e-a20c-43db-a19a-4240c2ed3b8b"
	missingID = "1e6c5b5e-0b8e-4a3b-9b64-3f2f0f0c1d2e"
)

// --- Mocks ---

type mockCatalog struct {
	products   map[string]product.Product
	productErr error
	queryRS    *product.ResultSet
	queryErr   error

	requests []query.Request
	lookups  []string
}

func (m *mockCatalog) Query(_ context.Context, req query.Request) (*product.ResultSet, error) {
	m.requests = append(m.requests, req)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryRS == nil {
		return product.NewResultSet(), nil
	}
	return m.queryRS, nil
}

func (m *mockCatalog) Product(_ context.Context, id string) (product.Product, error) {
	m.lookups = append(m.lookups, id)
	if m.productErr != nil {
		return product.Product{}, m.productErr
	}
	p, ok := m.products[id]
	if !ok {
		return product.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// --- Mapper ---

func TestBuildFilters_DerivedRules(t *testing.T) {
	tests := []struct {
		name string
		p    query.Parameters
		want string
	}{
		{
			"constellation only",
			query.Parameters{Constellation: query.Sentinel1},
			"platformname:Sentinel-1",
		},
		{
			"instrument hides platform",
			query.Parameters{Constellation: query.Sentinel1, Instrument: query.SARC},
			`instrumentshortname:"SAR-C SAR"`,
		},
		{
			"product type hides instrument",
			query.Parameters{Constellation: query.Sentinel1, Instrument: query.SARC, ProductType: query.GRD},
			"producttype:GRD",
		},
		{
			"cloud on sentinel 2",
			query.Parameters{Constellation: query.Sentinel2, Cloud: 30},
			"platformname:Sentinel-2 cloudcoverpercentage:[0 TO 30]",
		},
		{
			"name pattern",
			query.Parameters{Name: "S2A_MSIL1C_2017*"},
			"identifier:S2A_MSIL1C_2017*",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := BuildFilters(tc.p, "", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.String(); got != tc.want {
				t.Errorf("filters = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildFilters_Area(t *testing.T) {
	area := "POLYGON((10 45,12 45,12 46,10 46,10 45))"
	f, err := BuildFilters(query.Parameters{}, area, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `footprint:"Intersects(` + area + `)"`
	if f.String() != want {
		t.Errorf("filters = %q, want %q", f.String(), want)
	}
}

func TestBuildFilters_CloudUnsupported(t *testing.T) {
	for _, c := range []query.Constellation{query.ConstellationAny, query.Sentinel1} {
		_, err := BuildFilters(query.Parameters{Constellation: c, Cloud: 10}, "", nil)
		if !errors.Is(err, domain.ErrCloudCoverUnsupported) {
			t.Errorf("constellation %q: expected ErrCloudCoverUnsupported, got %v", c, err)
		}
	}
}

func TestBuildFilters_ExtraCollisionKeepsStructured(t *testing.T) {
	l, logs := newObserved()
	p := query.Parameters{
		ProductType: query.GRD,
		Query:       "producttype=SLC,polarisationmode=VV VH",
	}
	f, err := BuildFilters(p, "", l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.String(); got != `producttype:GRD polarisationmode:"VV VH"` {
		t.Errorf("filters = %q", got)
	}
	warns := logs.FilterMessage("extra query key overridden by search parameters").All()
	if len(warns) != 1 || warns[0].ContextMap()["dropped"] != "SLC" {
		t.Errorf("expected one collision warning, got %+v", warns)
	}
}

func TestBuildFilters_MalformedExtra(t *testing.T) {
	_, err := BuildFilters(query.Parameters{Query: "producttype"}, "", nil)
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

// --- Dispatcher ---

func TestDispatch_CloudErrorBeforeNetwork(t *testing.T) {
	cat := &mockCatalog{}
	svc := New(cat, nil)

	_, err := svc.Dispatch(context.Background(), query.Parameters{Constellation: query.Sentinel1, Cloud: 20}, "")
	if !errors.Is(err, domain.ErrCloudCoverUnsupported) {
		t.Fatalf("expected ErrCloudCoverUnsupported, got %v", err)
	}
	if len(cat.requests) != 0 || len(cat.lookups) != 0 {
		t.Error("catalog must not be contacted")
	}
}

func TestDispatch_UUIDRunChecksParametersFirst(t *testing.T) {
	tests := []struct {
		name    string
		params  query.Parameters
		wantErr error
	}{
		{
			"cloud without constellation",
			query.Parameters{UUID: validID, Cloud: 20},
			domain.ErrCloudCoverUnsupported,
		},
		{
			"cloud on sentinel 1",
			query.Parameters{UUID: validID, Constellation: query.Sentinel1, Cloud: 20},
			domain.ErrCloudCoverUnsupported,
		},
		{
			"malformed extra query",
			query.Parameters{UUID: validID, Query: "orbitdirection"},
			domain.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &mockCatalog{products: map[string]product.Product{validID: {ID: validID}}}
			_, err := New(cat, nil).Dispatch(context.Background(), tt.params, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(cat.lookups) != 0 || len(cat.requests) != 0 {
				t.Errorf("catalog must not be contacted: lookups=%v requests=%d", cat.lookups, len(cat.requests))
			}
		})
	}
}

func TestDispatch_UUIDLookup(t *testing.T) {
	l, logs := newObserved()
	cat := &mockCatalog{products: map[string]product.Product{
		validID: {ID: validID, Title: "S2A_MSIL1C", Size: 1 << 20},
	}}
	svc := New(cat, l)

	res, err := svc.Dispatch(context.Background(), query.Parameters{
		UUID: validID + ", not-a-uuid ," + missingID,
		Name: "ignored*",
	}, "POLYGON((0 0,1 0,1 1,0 0))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != ModeUUID {
		t.Errorf("Mode = %s, want uuid", res.Mode)
	}
	if ids := res.Products.IDs(); len(ids) != 1 || ids[0] != validID {
		t.Errorf("IDs = %v", ids)
	}
	if len(cat.requests) != 0 {
		t.Error("UUID lookup must not run a query")
	}
	if strings.Join(cat.lookups, ",") != validID+","+missingID {
		t.Errorf("malformed ids must not reach the catalog: %v", cat.lookups)
	}

	for _, id := range []string{"not-a-uuid", missingID} {
		msg := "No product with ID '" + id + "' exists on server"
		if logs.FilterMessage(msg).Len() != 1 {
			t.Errorf("missing log line %q", msg)
		}
	}
}

func TestDispatch_UUIDCatalogFailureAborts(t *testing.T) {
	cat := &mockCatalog{productErr: domain.ErrCatalog}
	_, err := New(cat, nil).Dispatch(context.Background(), query.Parameters{UUID: validID}, "")
	if !errors.Is(err, domain.ErrCatalog) {
		t.Errorf("expected ErrCatalog, got %v", err)
	}
}

func TestDispatch_NameSearchHasNoDates(t *testing.T) {
	cat := &mockCatalog{}
	svc := New(cat, nil)

	res, err := svc.Dispatch(context.Background(), query.Parameters{
		Name:    "S1A_*",
		Start:   "20170101",
		OrderBy: "-beginposition",
		Limit:   5,
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != ModeName {
		t.Errorf("Mode = %s, want name", res.Mode)
	}
	req := cat.requests[0]
	if req.Start != "" || req.End != "" {
		t.Errorf("name search must not carry dates: %+v", req)
	}
	if req.Query() != "identifier:S1A_*" || req.OrderBy != "-beginposition" || req.Limit != 5 {
		t.Errorf("unexpected request %q %+v", req.Query(), req)
	}
}

func TestDispatch_DateQueryDefaults(t *testing.T) {
	cat := &mockCatalog{}
	res, err := New(cat, nil).Dispatch(context.Background(), query.Parameters{Constellation: query.Sentinel3}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != ModeQuery {
		t.Errorf("Mode = %s, want query", res.Mode)
	}
	want := "platformname:Sentinel-3 beginposition:[1900-01-01T00:00:00Z TO NOW]"
	if got := cat.requests[0].Query(); got != want {
		t.Errorf("Query() = %q, want %q", got, want)
	}
}

func TestDispatch_BadDate(t *testing.T) {
	cat := &mockCatalog{}
	_, err := New(cat, nil).Dispatch(context.Background(), query.Parameters{Start: "yesterday"}, "")
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if len(cat.requests) != 0 {
		t.Error("catalog must not be contacted")
	}
}

func TestDispatch_QueryError(t *testing.T) {
	cat := &mockCatalog{queryErr: domain.ErrCatalog}
	_, err := New(cat, nil).Dispatch(context.Background(), query.Parameters{}, "")
	if !errors.Is(err, domain.ErrCatalog) {
		t.Errorf("expected ErrCatalog, got %v", err)
	}
}

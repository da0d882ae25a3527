package dhus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/geo"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
)

// Product fetches the OData metadata of a single product. Unknown ids yield an
// error matching domain.ErrProductNotFound.
func (c *Client) Product(ctx context.Context, id string) (p product.Product, err error) {
	start := time.Now()
	defer func() { c.observe("product", start, err) }()

	resp, err := c.get(ctx, c.api, c.endpoint(productPath(id), "$format=json"), nil)
	if err != nil {
		return product.Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var doc odataResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return product.Product{}, fmt.Errorf("%w: decode product %s: %w", domain.ErrCatalog, id, err)
	}
	d := doc.D
	if d.ID == "" {
		return product.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	p = product.Product{
		ID:            d.ID,
		Title:         d.Name,
		Size:          int64(d.ContentLength),
		Checksum:      product.Checksum{Algorithm: d.Checksum.Algorithm, Value: d.Checksum.Value},
		BeginPosition: time.Time(d.ContentDate.Start),
		IngestionDate: time.Time(d.IngestionDate),
		Attributes: map[string]string{
			"url":    c.endpoint(productPath(d.ID)+"/$value", ""),
			"online": strconv.FormatBool(d.Online == nil || *d.Online),
		},
	}
	if d.ContentGeometry != "" {
		fp, gerr := geo.GMLToWKT(d.ContentGeometry)
		if gerr != nil {
			c.logger.Debug("product footprint not parsed", zap.String("id", d.ID), zap.Error(gerr))
		} else {
			p.Footprint = fp
		}
	}
	return p, nil
}

func productPath(id string) string {
	return "odata/v1/Products('" + id + "')"
}

type odataResponse struct {
	D struct {
		ID            string    `json:"Id"`
		Name          string    `json:"Name"`
		ContentLength flexInt   `json:"ContentLength"`
		IngestionDate odataDate `json:"IngestionDate"`
		ContentDate   struct {
			Start odataDate `json:"Start"`
			End   odataDate `json:"End"`
		} `json:"ContentDate"`
		Checksum struct {
			Algorithm string `json:"Algorithm"`
			Value     string `json:"Value"`
		} `json:"Checksum"`
		ContentGeometry string `json:"ContentGeometry"`
		Online          *bool  `json:"Online"`
	} `json:"d"`
}

// odataDate decodes "/Date(1488283200000)/" timestamps.
type odataDate time.Time

func (d *odataDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("odata date: %w", err)
	}
	if s == "" {
		*d = odataDate(time.Time{})
		return nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "/Date("), ")/")
	if inner == s {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("odata date %q: %w", s, err)
		}
		*d = odataDate(t.UTC())
		return nil
	}
	// Offsets like "+0000" may follow the milliseconds.
	if i := strings.IndexAny(inner, "+-"); i > 0 {
		inner = inner[:i]
	}
	ms, err := strconv.ParseInt(inner, 10, 64)
	if err != nil {
		return fmt.Errorf("odata date %q: %w", s, err)
	}
	*d = odataDate(time.UnixMilli(ms).UTC())
	return nil
}

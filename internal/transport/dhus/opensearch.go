package dhus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/query"
	"github.com/kailas-cloud/sentinelsearch/internal/metrics"
	"github.com/kailas-cloud/sentinelsearch/internal/progress"
)

// Query runs req against the OpenSearch endpoint, following pages until the result
// count or req.Limit is reached.
func (c *Client) Query(ctx context.Context, req query.Request) (rs *product.ResultSet, err error) {
	start := time.Now()
	defer func() { c.observe("query", start, err) }()

	q := req.Query()
	orderBy := formatOrderBy(req.OrderBy)
	c.logger.Debug("running catalog query", zap.String("q", q), zap.String("orderby", orderBy))

	rs = product.NewResultSet()
	var bar *progress.Bar
	offset := 0
	for {
		rows := c.pageSize
		if req.Limit > 0 && req.Limit-offset < rows {
			rows = req.Limit - offset
		}
		if rows <= 0 {
			break
		}

		page, total, perr := c.searchPage(ctx, q, orderBy, offset, rows)
		if perr != nil {
			return nil, perr
		}
		if bar == nil {
			want := total
			if req.Limit > 0 && req.Limit < want {
				want = req.Limit
			}
			bar = c.bars.New(float64(want), 0)
		}
		for _, p := range page {
			rs.Add(p)
		}
		bar.Update(float64(len(page)))

		offset += len(page)
		if len(page) < rows || offset >= total {
			break
		}
	}
	if bar != nil {
		bar.Close()
	}

	metrics.ProductsFound.Add(float64(rs.Len()))
	return rs, nil
}

func (c *Client) searchPage(
	ctx context.Context, q, orderBy string, offset, rows int,
) ([]product.Product, int, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", q)
	params.Set("start", strconv.Itoa(offset))
	params.Set("rows", strconv.Itoa(rows))
	if orderBy != "" {
		params.Set("orderby", orderBy)
	}

	resp, err := c.get(ctx, c.api, c.endpoint("search", params.Encode()), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("search page at %d: %w", offset, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var doc searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("%w: decode search response: %w", domain.ErrCatalog, err)
	}

	page := make([]product.Product, 0, len(doc.Feed.Entries))
	for _, e := range doc.Feed.Entries {
		page = append(page, e.toProduct())
	}
	return page, int(doc.Feed.TotalResults), nil
}

// formatOrderBy turns "-ingestiondate,+cloudcoverpercentage" into
// "ingestiondate desc,cloudcoverpercentage asc".
func formatOrderBy(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	var parts []string
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		switch {
		case field == "":
			continue
		case strings.HasPrefix(field, "-"):
			parts = append(parts, strings.ToLower(field[1:])+" desc")
		default:
			parts = append(parts, strings.ToLower(strings.TrimPrefix(field, "+"))+" asc")
		}
	}
	return strings.Join(parts, ",")
}

type searchResponse struct {
	Feed struct {
		TotalResults flexInt         `json:"opensearch:totalResults"`
		Entries      oneOrMany[entry] `json:"entry"`
	} `json:"feed"`
}

type namedValue struct {
	Name    string     `json:"name"`
	Content flexString `json:"content"`
}

type entry struct {
	ID      string                `json:"id"`
	Title   string                `json:"title"`
	Summary string                `json:"summary"`
	Date    oneOrMany[namedValue] `json:"date"`
	Int     oneOrMany[namedValue] `json:"int"`
	Double  oneOrMany[namedValue] `json:"double"`
	Str     oneOrMany[namedValue] `json:"str"`
	Bool    oneOrMany[namedValue] `json:"bool"`
}

func (e entry) toProduct() product.Product {
	attrs := make(map[string]string)
	for _, group := range []oneOrMany[namedValue]{e.Str, e.Int, e.Double, e.Bool, e.Date} {
		for _, nv := range group {
			attrs[strings.ToLower(nv.Name)] = string(nv.Content)
		}
	}

	p := product.Product{
		ID:         e.ID,
		Title:      e.Title,
		Summary:    e.Summary,
		Footprint:  attrs["footprint"],
		Attributes: attrs,
	}
	if size, err := parseSize(attrs["size"]); err == nil {
		p.Size = size
	}
	p.BeginPosition = parseTime(attrs["beginposition"])
	p.IngestionDate = parseTime(attrs["ingestiondate"])
	return p
}

var sizeUnits = map[string]float64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// parseSize parses catalog size strings such as "1.09 GB" into bytes.
func parseSize(s string) (int64, error) {
	num, unit, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, fmt.Errorf("size %q has no unit", s)
	}
	mult, ok := sizeUnits[strings.ToUpper(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("size %q has unknown unit", s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", s, err)
	}
	return int64(math.Round(v * mult)), nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// oneOrMany decodes a JSON value that is either a single T or an array of T.
// The hub collapses one-element arrays into plain objects.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*o = nil
		return nil
	case b[0] == '[':
		var many []T
		if err := json.Unmarshal(b, &many); err != nil {
			return err //nolint:wrapcheck // decoder adds context
		}
		*o = many
		return nil
	default:
		var one T
		if err := json.Unmarshal(b, &one); err != nil {
			return err //nolint:wrapcheck // decoder adds context
		}
		*o = oneOrMany[T]{one}
		return nil
	}
}

// flexString accepts JSON strings, numbers and booleans.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(bytes.TrimSpace(b))
	return nil
}

// flexInt accepts JSON numbers and numeric strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("integer %q: %w", s, err)
		}
		*f = flexInt(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err //nolint:wrapcheck // decoder adds context
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("integer %s: %w", n, err)
	}
	*f = flexInt(v)
	return nil
}

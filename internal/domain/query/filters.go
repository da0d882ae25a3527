package query

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
)

// Catalog attribute keys used by derived filters.
const (
	KeyPlatform    = "platformname"
	KeyInstrument  = "instrumentshortname"
	KeyProductType = "producttype"
	KeyCloudCover  = "cloudcoverpercentage"
	KeyFootprint   = "footprint"
	KeyIdentifier  = "identifier"
	KeyDate        = "beginposition"
)

// Value is a single filter value: a term or a closed range.
type Value struct {
	term    string
	lo, hi  string
	isRange bool
}

// Term creates a plain filter value.
func Term(v string) Value { return Value{term: v} }

// Range creates a closed [lo TO hi] filter value.
func Range(lo, hi string) Value { return Value{lo: lo, hi: hi, isRange: true} }

// String renders v in catalog query syntax. Terms containing whitespace are quoted.
func (v Value) String() string {
	if v.isRange {
		return "[" + v.lo + " TO " + v.hi + "]"
	}
	if needsQuoting(v.term) {
		return `"` + v.term + `"`
	}
	return v.term
}

func needsQuoting(s string) bool {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "(") || strings.HasPrefix(s, "[") {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// Filters is an insertion-ordered set of catalog query terms.
type Filters struct {
	keys   []string
	values map[string]Value
}

// NewFilters creates an empty filter set.
func NewFilters() *Filters {
	return &Filters{values: make(map[string]Value)}
}

// Set stores v under key, replacing an existing value in place.
func (f *Filters) Set(key string, v Value) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// SetIfAbsent stores v under key unless key is already set. Returns false on collision.
func (f *Filters) SetIfAbsent(key string, v Value) bool {
	if _, ok := f.values[key]; ok {
		return false
	}
	f.Set(key, v)
	return true
}

// Get returns the value stored under key.
func (f *Filters) Get(key string) (Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is set.
func (f *Filters) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Len returns the number of filters.
func (f *Filters) Len() int { return len(f.keys) }

// Clone returns an independent copy of f.
func (f *Filters) Clone() *Filters {
	c := NewFilters()
	for _, k := range f.keys {
		c.Set(k, f.values[k])
	}
	return c
}

// String renders the filters as a space-separated catalog query.
func (f *Filters) String() string {
	parts := make([]string, 0, len(f.keys))
	for _, k := range f.keys {
		parts = append(parts, k+":"+f.values[k].String())
	}
	return strings.Join(parts, " ")
}

// KV is a single free-form key=value filter.
type KV struct {
	Key   string
	Value string
}

// ParseExtra parses comma-separated key=value pairs. Empty input yields no pairs.
func ParseExtra(s string) ([]KV, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []KV
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: query entry %q must be key=value", domain.ErrInvalidParameter, part)
		}
		out = append(out, KV{Key: k, Value: strings.TrimSpace(v)})
	}
	return out, nil
}

// Date defaults when the host leaves the range open.
const (
	DefaultStart = "19000101"
	DefaultEnd   = "NOW"
)

var dateLayouts = []string{"20060102", "2006-01-02", time.RFC3339}

// NormalizeDate converts a host date to catalog syntax. YYYYMMDD, YYYY-MM-DD and RFC 3339
// dates become UTC timestamps; NOW-based date math passes through unchanged.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), "NOW") {
		return strings.ToUpper(s), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05Z"), nil
		}
	}
	return "", fmt.Errorf("%w: unsupported date %q (use YYYYMMDD or NOW-1DAY)", domain.ErrInvalidParameter, s)
}

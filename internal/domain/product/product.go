package product

import (
	"math"
	"time"
)

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// Checksum is the digest the catalog publishes for a product archive.
type Checksum struct {
	Algorithm string
	Value     string
}

// Product is a single downloadable granule returned by the catalog.
type Product struct {
	ID            string
	Title         string
	Summary       string
	Size          int64 // bytes
	Footprint     string // WKT
	Checksum      Checksum
	BeginPosition time.Time
	IngestionDate time.Time
	// Attributes holds the raw named attributes returned by the catalog.
	Attributes map[string]string
}

// SizeMB returns the archive size in megabytes rounded to two decimals.
func (p Product) SizeMB() float64 {
	return math.Round(float64(p.Size)/bytesPerMB*100) / 100
}

// ResultSet is an insertion-ordered mapping from product id to product.
type ResultSet struct {
	ids      []string
	products map[string]Product
}

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{products: make(map[string]Product)}
}

// Add stores p under its id. Re-adding an id replaces the product but keeps its position.
func (rs *ResultSet) Add(p Product) {
	if _, ok := rs.products[p.ID]; !ok {
		rs.ids = append(rs.ids, p.ID)
	}
	rs.products[p.ID] = p
}

// Get returns the product stored under id.
func (rs *ResultSet) Get(id string) (Product, bool) {
	p, ok := rs.products[id]
	return p, ok
}

// IDs returns product ids in insertion order.
func (rs *ResultSet) IDs() []string {
	out := make([]string, len(rs.ids))
	copy(out, rs.ids)
	return out
}

// Products returns products in insertion order.
func (rs *ResultSet) Products() []Product {
	out := make([]Product, 0, len(rs.ids))
	for _, id := range rs.ids {
		out = append(out, rs.products[id])
	}
	return out
}

// Len returns the number of products.
func (rs *ResultSet) Len() int {
	return len(rs.ids)
}

// TotalSizeGB returns the aggregate archive size in gigabytes rounded to two decimals.
func (rs *ResultSet) TotalSizeGB() float64 {
	var total int64
	for _, p := range rs.products {
		total += p.Size
	}
	return math.Round(float64(total)/bytesPerGB*100) / 100
}

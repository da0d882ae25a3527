package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
)

// Extent is an axis-aligned bounding rectangle in the (minX, maxX, minY, maxY) order
// vector drivers report layer extents in.
type Extent struct {
	MinX, MaxX, MinY, MaxY float64
}

// ParseExtent parses "xmin,xmax,ymin,ymax", optionally followed by a " [EPSG:xxxx]" suffix.
func ParseExtent(s string) (Extent, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "["); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	if len(parts) != 4 {
		return Extent{}, fmt.Errorf("%w: extent %q must have 4 comma-separated values", domain.ErrInvalidGeometry, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Extent{}, fmt.Errorf("%w: extent value %q: %w", domain.ErrInvalidGeometry, p, err)
		}
		v[i] = f
	}
	return Extent{MinX: v[0], MaxX: v[1], MinY: v[2], MaxY: v[3]}, nil
}

// WKT returns the closed polygon covering the extent:
// POLYGON((minX minY,maxX minY,maxX maxY,minX maxY,minX minY)).
func (e Extent) WKT() string {
	a, b := formatCoord(e.MinX), formatCoord(e.MaxX)
	c, d := formatCoord(e.MinY), formatCoord(e.MaxY)
	return "POLYGON((" +
		a + " " + c + "," +
		b + " " + c + "," +
		b + " " + d + "," +
		a + " " + d + "," +
		a + " " + c + "))"
}

// IsGeographic reports whether the extent fits in longitude/latitude bounds.
func (e Extent) IsGeographic() bool {
	return ValidateCoordinates(e.MinY, e.MinX) && ValidateCoordinates(e.MaxY, e.MaxX)
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

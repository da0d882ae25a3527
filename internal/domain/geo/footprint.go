package geo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
)

const dateLayout = "2006-01-02T15:04:05.000Z"

// FeatureCollection builds one GeoJSON feature per product: the footprint becomes the
// geometry and the product metadata becomes the properties. Products without a
// footprint get a null geometry.
func FeatureCollection(rs *product.ResultSet) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, rs.Len())}
	for i, p := range rs.Products() {
		var g geom.T
		if p.Footprint != "" {
			var err error
			g, err = wkt.Unmarshal(p.Footprint)
			if err != nil {
				return nil, fmt.Errorf("%w: footprint of %s: %w", domain.ErrInvalidGeometry, p.ID, err)
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         strconv.Itoa(i),
			Geometry:   g,
			Properties: properties(p),
		})
	}
	return fc, nil
}

func properties(p product.Product) map[string]interface{} {
	props := make(map[string]interface{}, len(p.Attributes)+6)
	for k, v := range p.Attributes {
		if k == "footprint" || k == "gmlfootprint" {
			continue
		}
		props[k] = v
	}
	props["id"] = p.ID
	props["title"] = p.Title
	if p.Summary != "" {
		props["summary"] = p.Summary
	}
	props["size"] = p.Size
	if !p.BeginPosition.IsZero() {
		props["beginposition"] = p.BeginPosition.UTC().Format(dateLayout)
	}
	if !p.IngestionDate.IsZero() {
		props["ingestiondate"] = p.IngestionDate.UTC().Format(dateLayout)
	}
	return props
}

var gmlCoordinates = regexp.MustCompile(`(?s)<gml:coordinates>(.*?)</gml:coordinates>`)

// GMLToWKT converts a GML polygon with "lat,lon" coordinate tuples to WKT.
// The first coordinate list is the outer ring, the rest are holes.
func GMLToWKT(gml string) (string, error) {
	matches := gmlCoordinates.FindAllStringSubmatch(gml, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no gml:coordinates in footprint", domain.ErrInvalidGeometry)
	}
	rings := make([][]geom.Coord, 0, len(matches))
	for _, m := range matches {
		ring, err := parseGMLRing(m[1])
		if err != nil {
			return "", err
		}
		rings = append(rings, ring)
	}
	poly, err := geom.NewPolygon(geom.XY).SetCoords(rings)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
	}
	out, err := wkt.Marshal(poly)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
	}
	return out, nil
}

func parseGMLRing(s string) ([]geom.Coord, error) {
	tuples := strings.Fields(s)
	ring := make([]geom.Coord, 0, len(tuples))
	for _, t := range tuples {
		latStr, lonStr, ok := strings.Cut(t, ",")
		if !ok {
			return nil, fmt.Errorf("%w: gml tuple %q", domain.ErrInvalidGeometry, t)
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gml latitude %q", domain.ErrInvalidGeometry, latStr)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gml longitude %q", domain.ErrInvalidGeometry, lonStr)
		}
		ring = append(ring, geom.Coord{lon, lat})
	}
	return ring, nil
}

// GeoJSONToWKT converts the area of a GeoJSON document to WKT. A FeatureCollection
// contributes its first feature, a Feature its geometry, anything else is read as a
// bare geometry.
func GeoJSONToWKT(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
	}

	var g geom.T
	switch head.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
		}
		if len(fc.Features) == 0 {
			return "", fmt.Errorf("%w: feature collection is empty", domain.ErrInvalidGeometry)
		}
		g = fc.Features[0].Geometry
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
		}
		g = f.Geometry
	default:
		if err := geojson.Unmarshal(data, &g); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
		}
	}
	if g == nil {
		return "", fmt.Errorf("%w: no geometry", domain.ErrInvalidGeometry)
	}

	out, err := wkt.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeometry, err)
	}
	return out, nil
}

package geo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
	"github.com/kailas-cloud/sentinelsearch/internal/domain/product"
)

func TestExtent_WKT(t *testing.T) {
	tests := []struct {
		ext  Extent
		want string
	}{
		{
			Extent{MinX: 10.5, MaxX: 11.25, MinY: 45, MaxY: 46.75},
			"POLYGON((10.5 45,11.25 45,11.25 46.75,10.5 46.75,10.5 45))",
		},
		{
			Extent{MinX: 10, MaxX: 12, MinY: 45, MaxY: 47},
			"POLYGON((10 45,12 45,12 47,10 47,10 45))",
		},
		{
			Extent{MinX: -3, MaxX: -1, MinY: -0.5, MaxY: 0.5},
			"POLYGON((-3 -0.5,-1 -0.5,-1 0.5,-3 0.5,-3 -0.5))",
		},
	}
	for _, tc := range tests {
		if got := tc.ext.WKT(); got != tc.want {
			t.Errorf("WKT():\ngot:  %s\nwant: %s", got, tc.want)
		}
	}
}

func TestParseExtent(t *testing.T) {
	tests := []string{
		"10.5,11.25,45,46.75",
		"10.5, 11.25, 45, 46.75",
		"10.5,11.25,45,46.75 [EPSG:4326]",
	}
	want := Extent{MinX: 10.5, MaxX: 11.25, MinY: 45, MaxY: 46.75}
	for _, in := range tests {
		got, err := ParseExtent(in)
		if err != nil {
			t.Fatalf("ParseExtent(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseExtent(%q) = %+v, want %+v", in, got, want)
		}
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d"} {
		if _, err := ParseExtent(bad); !errors.Is(err, domain.ErrInvalidGeometry) {
			t.Errorf("ParseExtent(%q): expected ErrInvalidGeometry, got %v", bad, err)
		}
	}
}

func TestExtent_IsGeographic(t *testing.T) {
	if !(Extent{MinX: -10, MaxX: 10, MinY: -5, MaxY: 5}).IsGeographic() {
		t.Error("expected geographic extent")
	}
	if (Extent{MinX: 400000, MaxX: 500000, MinY: 5000000, MaxY: 5100000}).IsGeographic() {
		t.Error("projected extent must not be geographic")
	}
}

func TestGMLToWKT(t *testing.T) {
	gml := `<gml:Polygon srsName="http://www.opengis.net/gml/srs/epsg.xml#4326" xmlns:gml="http://www.opengis.net/gml">
   <gml:outerBoundaryIs>
      <gml:LinearRing>
         <gml:coordinates>45.0,10.0 45.0,11.0 46.0,11.0 46.0,10.0 45.0,10.0</gml:coordinates>
      </gml:LinearRing>
   </gml:outerBoundaryIs>
</gml:Polygon>`

	out, err := GMLToWKT(gml)
	if err != nil {
		t.Fatalf("GMLToWKT: %v", err)
	}
	g, err := wkt.Unmarshal(out)
	if err != nil {
		t.Fatalf("result is not WKT: %v (%s)", err, out)
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		t.Fatalf("expected polygon, got %T", g)
	}
	first := poly.Coord(0)
	if first.X() != 10 || first.Y() != 45 {
		t.Errorf("first coord = %v, want lon/lat order (10, 45)", first)
	}
	if poly.NumLinearRings() != 1 {
		t.Errorf("rings = %d, want 1", poly.NumLinearRings())
	}

	if _, err := GMLToWKT("<gml:Polygon/>"); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestGeoJSONToWKT(t *testing.T) {
	polygon := `{"type":"Polygon","coordinates":[[[10,45],[11,45],[11,46],[10,46],[10,45]]]}`
	docs := map[string]string{
		"geometry":   polygon,
		"feature":    `{"type":"Feature","properties":{},"geometry":` + polygon + `}`,
		"collection": `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":` + polygon + `}]}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			out, err := GeoJSONToWKT([]byte(doc))
			if err != nil {
				t.Fatalf("GeoJSONToWKT: %v", err)
			}
			g, err := wkt.Unmarshal(out)
			if err != nil {
				t.Fatalf("result is not WKT: %v (%s)", err, out)
			}
			if _, ok := g.(*geom.Polygon); !ok {
				t.Errorf("expected polygon, got %T", g)
			}
		})
	}

	bad := []string{`not json`, `{"type":"FeatureCollection","features":[]}`}
	for _, doc := range bad {
		if _, err := GeoJSONToWKT([]byte(doc)); !errors.Is(err, domain.ErrInvalidGeometry) {
			t.Errorf("GeoJSONToWKT(%q): expected ErrInvalidGeometry, got %v", doc, err)
		}
	}
}

func TestFeatureCollection(t *testing.T) {
	rs := product.NewResultSet()
	rs.Add(product.Product{
		ID:        "a",
		Title:     "S2A_A",
		Size:      100,
		Footprint: "POLYGON((10 45,11 45,11 46,10 46,10 45))",
		Attributes: map[string]string{
			"footprint":    "POLYGON((10 45,11 45,11 46,10 46,10 45))",
			"platformname": "Sentinel-2",
		},
	})
	rs.Add(product.Product{ID: "b", Title: "S2A_B", Footprint: "POLYGON((0 0,1 0,1 1,0 1,0 0))"})

	fc, err := FeatureCollection(rs)
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry   json.RawMessage        `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "FeatureCollection" {
		t.Errorf("type = %q", decoded.Type)
	}
	if len(decoded.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(decoded.Features))
	}
	for i, f := range decoded.Features {
		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			t.Errorf("feature %d has no geometry", i)
		}
	}
	props := decoded.Features[0].Properties
	if props["title"] != "S2A_A" || props["platformname"] != "Sentinel-2" {
		t.Errorf("unexpected properties: %v", props)
	}
	if _, ok := props["footprint"]; ok {
		t.Error("footprint must not be repeated in properties")
	}
}

func TestFeatureCollection_InvalidFootprint(t *testing.T) {
	rs := product.NewResultSet()
	rs.Add(product.Product{ID: "a", Footprint: "POLYGON((oops"})
	if _, err := FeatureCollection(rs); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

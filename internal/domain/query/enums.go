package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
)

// Constellation is the Sentinel platform family. The zero value means any.
type Constellation string

// Constellation values in host form order.
const (
	ConstellationAny Constellation = ""
	Sentinel1        Constellation = "1"
	Sentinel2        Constellation = "2"
	Sentinel3        Constellation = "3"
)

var constellations = []Constellation{ConstellationAny, Sentinel1, Sentinel2, Sentinel3}

// ConstellationFromIndex maps a host selection index to a constellation.
func ConstellationFromIndex(i int) (Constellation, error) {
	if i < 0 || i >= len(constellations) {
		return "", outOfRange("sentinel", i, len(constellations))
	}
	return constellations[i], nil
}

// ParseConstellation parses "any", "1", "2", "3" (also "S2", "Sentinel-2").
func ParseConstellation(s string) (Constellation, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "sentinel-")
	v = strings.TrimPrefix(v, "s")
	if v == "any" || v == "" {
		return ConstellationAny, nil
	}
	for _, c := range constellations[1:] {
		if string(c) == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: sentinel must be one of any, 1, 2, 3, got %q", domain.ErrInvalidParameter, s)
}

// IsAny reports whether no constellation filter applies.
func (c Constellation) IsAny() bool { return c == ConstellationAny }

// PlatformName returns the catalog platform name, e.g. "Sentinel-2".
func (c Constellation) PlatformName() string {
	if c.IsAny() {
		return ""
	}
	return "Sentinel-" + string(c)
}

// SupportsCloudCover reports whether products of c carry cloud cover metadata.
func (c Constellation) SupportsCloudCover() bool {
	return c == Sentinel2 || c == Sentinel3
}

func (c Constellation) String() string {
	if c.IsAny() {
		return "any"
	}
	return string(c)
}

// Instrument is the sensor short name. The zero value means any.
type Instrument string

// Instrument values in host form order.
const (
	InstrumentAny Instrument = ""
	MSI           Instrument = "MSI"
	SARC          Instrument = "SAR-C SAR"
	SLSTR         Instrument = "SLSTR"
	OLCI          Instrument = "OLCI"
	SRAL          Instrument = "SRAL"
)

var instruments = []Instrument{InstrumentAny, MSI, SARC, SLSTR, OLCI, SRAL}

// InstrumentFromIndex maps a host selection index to an instrument.
func InstrumentFromIndex(i int) (Instrument, error) {
	if i < 0 || i >= len(instruments) {
		return "", outOfRange("instrument", i, len(instruments))
	}
	return instruments[i], nil
}

// ParseInstrument parses an instrument name case-insensitively. "SAR-CSAR" is accepted
// as an alias of "SAR-C SAR".
func ParseInstrument(s string) (Instrument, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "any") {
		return InstrumentAny, nil
	}
	if strings.EqualFold(v, "SAR-CSAR") || strings.EqualFold(v, "SAR-C") {
		return SARC, nil
	}
	for _, in := range instruments[1:] {
		if strings.EqualFold(string(in), v) {
			return in, nil
		}
	}
	return "", fmt.Errorf("%w: unknown instrument %q", domain.ErrInvalidParameter, s)
}

// IsAny reports whether no instrument filter applies.
func (in Instrument) IsAny() bool { return in == InstrumentAny }

// ProductType is the catalog product type. The zero value means any.
type ProductType string

// ProductType values in host form order.
const (
	ProductTypeAny ProductType = ""
	SLC            ProductType = "SLC"
	GRD            ProductType = "GRD"
	OCN            ProductType = "OCN"
	RAW            ProductType = "RAW"
	S2MSI1C        ProductType = "S2MSI1C"
	S2MSI2Ap       ProductType = "S2MSI2Ap"
)

var productTypes = []ProductType{ProductTypeAny, SLC, GRD, OCN, RAW, S2MSI1C, S2MSI2Ap}

// ProductTypeFromIndex maps a host selection index to a product type.
func ProductTypeFromIndex(i int) (ProductType, error) {
	if i < 0 || i >= len(productTypes) {
		return "", outOfRange("producttype", i, len(productTypes))
	}
	return productTypes[i], nil
}

// ParseProductType parses a product type case-insensitively.
func ParseProductType(s string) (ProductType, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "any") {
		return ProductTypeAny, nil
	}
	for _, pt := range productTypes[1:] {
		if strings.EqualFold(string(pt), v) {
			return pt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown product type %q", domain.ErrInvalidParameter, s)
}

// IsAny reports whether no product type filter applies.
func (pt ProductType) IsAny() bool { return pt == ProductTypeAny }

func outOfRange(field string, i, n int) error {
	return fmt.Errorf("%w: %s index %d out of range [0, %d)", domain.ErrInvalidParameter, field, i, n)
}

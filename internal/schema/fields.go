// Package schema defines the expected shape of the housing listings dataset:
// the canonical column names, how each column's values are compared, and the
// alternate header spellings accepted at load time.
package schema

import "strings"

// FieldKind classifies how a column's values are parsed and compared.
type FieldKind int

const (
	// FieldText values compare as case-sensitive strings.
	FieldText FieldKind = iota
	// FieldNumeric values parse as non-negative numbers (currency symbols
	// and thousands separators are stripped before parsing).
	FieldNumeric
	// FieldCoordinate values parse as floats within a bounded range
	// (±90 for latitude, ±180 for longitude).
	FieldCoordinate
)

// FieldSpec describes one expected dataset column.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	Aliases []string
}

// Canonical column names. Filter, sort and render code address columns
// through these so a renamed header only has to be fixed here.
const (
	ColZipCode    = "Zip Code"
	ColPrice      = "Price"
	ColBeds       = "Beds"
	ColBaths      = "Baths"
	ColSpace      = "Living Space"
	ColAddress    = "Address"
	ColCity       = "City"
	ColState      = "State"
	ColPopulation = "Zip Code Population"
	ColDensity    = "Zip Code Density"
	ColCounty     = "County"
	ColIncome     = "Median Household Income"
	ColLatitude   = "Latitude"
	ColLongitude  = "Longitude"
)

// HousingFieldSpecs defines the expected columns for US housing listings data.
// Aliases cover common header variants plus the 10-character truncations that
// DBF attribute tables impose on shapefile sources.
var HousingFieldSpecs = []FieldSpec{
	{Name: ColZipCode, Kind: FieldText, Aliases: []string{"zip", "zipcode", "zip_code"}},
	{Name: ColPrice, Kind: FieldNumeric, Aliases: []string{"list_price"}},
	{Name: ColBeds, Kind: FieldNumeric, Aliases: []string{"bedrooms"}},
	{Name: ColBaths, Kind: FieldNumeric, Aliases: []string{"bathrooms"}},
	{Name: ColSpace, Kind: FieldNumeric, Aliases: []string{"living_spa", "sqft", "living_area"}},
	{Name: ColAddress, Kind: FieldText},
	{Name: ColCity, Kind: FieldText},
	{Name: ColState, Kind: FieldText},
	{Name: ColPopulation, Kind: FieldNumeric, Aliases: []string{"zip_code_p", "population"}},
	{Name: ColDensity, Kind: FieldNumeric, Aliases: []string{"zip_code_d", "density"}},
	{Name: ColCounty, Kind: FieldText},
	{Name: ColIncome, Kind: FieldNumeric, Aliases: []string{"median_hou", "median_income", "income"}},
	{Name: ColLatitude, Kind: FieldCoordinate, Aliases: []string{"lat"}},
	{Name: ColLongitude, Kind: FieldCoordinate, Aliases: []string{"lon", "lng"}},
}

// lookup maps every normalized name and alias to its spec, built once.
var lookup = buildLookup()

func buildLookup() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(HousingFieldSpecs)*2)
	for _, spec := range HousingFieldSpecs {
		m[Normalize(spec.Name)] = spec
		for _, alias := range spec.Aliases {
			m[Normalize(alias)] = spec
		}
	}
	return m
}

// Normalize canonicalizes a header name for matching: lowercased, trimmed,
// with underscores treated as spaces and interior runs collapsed.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}

// Lookup returns the spec for a raw header name, matching canonical names
// and aliases case-insensitively.
func Lookup(name string) (FieldSpec, bool) {
	spec, ok := lookup[Normalize(name)]
	return spec, ok
}

// CanonicalName maps a raw header to its canonical column name when the
// column is a known housing field; unknown headers pass through trimmed.
func CanonicalName(header string) string {
	if spec, ok := Lookup(header); ok {
		return spec.Name
	}
	return strings.TrimSpace(header)
}

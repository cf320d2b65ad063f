package dataset

import (
	"fmt"
	"strconv"

	shp "github.com/jonas-p/go-shp"

	"housemap/internal/schema"
)

// ReadShapefile loads listings from a point shapefile.
//
// DBF attributes become dataset columns (DBF truncates names to ten
// characters; the housing schema aliases cover the truncated spellings).
// When the attribute table itself carries no Latitude/Longitude columns,
// the point geometry fills them in. Non-point geometries load with empty
// coordinates and are later skipped by the map renderer like any other
// row without a usable position.
func ReadShapefile(path string) (*Dataset, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()
	header := make([]string, 0, len(fields)+2)
	hasLat, hasLon := false, false
	for _, f := range fields {
		name := f.String()
		header = append(header, name)
		switch schema.CanonicalName(name) {
		case schema.ColLatitude:
			hasLat = true
		case schema.ColLongitude:
			hasLon = true
		}
	}
	useGeometry := !hasLat || !hasLon
	if useGeometry {
		header = append(header, schema.ColLatitude, schema.ColLongitude)
	}

	var rows [][]string
	for r.Next() {
		idx, shape := r.Shape()

		row := make([]string, 0, len(header))
		for i := range fields {
			row = append(row, CleanCell(r.ReadAttribute(idx, i)))
		}

		if useGeometry {
			if pt, ok := shape.(*shp.Point); ok {
				row = append(row,
					strconv.FormatFloat(pt.Y, 'f', -1, 64), // latitude
					strconv.FormatFloat(pt.X, 'f', -1, 64), // longitude
				)
			} else {
				row = append(row, "", "")
			}
		}

		rows = append(rows, row)
	}

	if len(header) == 0 {
		return nil, &SchemaError{Reason: "shapefile has no attribute fields"}
	}

	return Load(header, rows)
}

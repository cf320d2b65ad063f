package dataset

import (
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"

	"housemap/internal/schema"
)

// writePointShapefile builds a two-point fixture with DBF-truncated
// housing attribute names, the way real shapefile exports arrive.
func writePointShapefile(t *testing.T, path string) {
	t.Helper()

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}

	fields := []shp.Field{
		shp.StringField("ADDRESS", 40),
		shp.StringField("CITY", 25),
		shp.StringField("STATE", 2),
		shp.NumberField("PRICE", 12),
		shp.NumberField("LIVING_SPA", 12),
	}
	w.SetFields(fields)

	points := []shp.Point{
		{X: -89.65, Y: 39.78},
		{X: -87.63, Y: 41.88},
	}
	attrs := [][]interface{}{
		{"12 Main St", "Springfield", "IL", 100000, 1500},
		{"9 Oak Ave", "Chicago", "IL", 250000, 900},
	}

	for n := range points {
		w.Write(&points[n])
		for f, v := range attrs[n] {
			if err := w.WriteAttribute(n, f, v); err != nil {
				t.Fatalf("write attribute (%d,%d): %v", n, f, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close shapefile: %v", err)
	}
}

func TestReadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.shp")
	writePointShapefile(t, path)

	ds, err := ReadShapefile(path)
	if err != nil {
		t.Fatalf("ReadShapefile() error = %v", err)
	}

	if ds.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", ds.RowCount())
	}

	// Truncated DBF name resolves to the canonical column
	if !ds.HasColumn(schema.ColSpace) {
		t.Errorf("columns = %v, want LIVING_SPA mapped to %q", ds.Columns(), schema.ColSpace)
	}

	// Geometry fills in the coordinate columns
	lat, ok := ds.ValueAt(schema.ColLatitude, 1).Float()
	if !ok || lat != 41.88 {
		t.Errorf("Latitude[1] = (%v, %v), want (41.88, true)", lat, ok)
	}
	lon, ok := ds.ValueAt(schema.ColLongitude, 1).Float()
	if !ok || lon != -87.63 {
		t.Errorf("Longitude[1] = (%v, %v), want (-87.63, true)", lon, ok)
	}

	if got := ds.ValueAt(schema.ColCity, 0).String(); got != "Springfield" {
		t.Errorf("City[0] = %q, want %q", got, "Springfield")
	}
	if f, _ := ds.ValueAt(schema.ColPrice, 1).Float(); f != 250000 {
		t.Errorf("Price[1] = %v, want 250000", f)
	}
}

func TestReadShapefile_ViaReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.shp")
	writePointShapefile(t, path)

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if ds.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", ds.RowCount())
	}
}

func TestReadShapefile_MissingFile(t *testing.T) {
	_, err := ReadShapefile(filepath.Join(t.TempDir(), "nope.shp"))
	if err == nil {
		t.Fatal("ReadShapefile(missing) expected error")
	}
}

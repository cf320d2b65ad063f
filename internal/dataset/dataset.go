// Package dataset provides the immutable in-memory listings table: a
// column-indexed view over one loaded snapshot with typed cell access.
//
// A Dataset is built once by Load (or the CSV/shapefile readers layered on
// top of it) and never mutated afterwards; reloading produces a new Dataset
// that replaces the old one wholesale. Because of that, a Dataset is safe to
// share across goroutines without locking.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"housemap/internal/schema"
)

// SchemaError reports input that cannot be interpreted as a rectangular
// record set. It is fatal to the load operation that produced it and leaves
// any previously loaded Dataset untouched.
type SchemaError struct {
	Reason string
	Row    int // 1-based data row where the shape broke, 0 for header-level problems
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error at row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("schema error: %s", e.Reason)
}

// LoadStats summarizes what a load observed. ParseWarnings counts cells in
// declared-numeric columns that did not parse as numbers; those cells stay
// in the Dataset as Text and are handled fail-open downstream, so the count
// is the only trace the condition leaves.
type LoadStats struct {
	Rows           int
	Columns        int
	ParseWarnings  int
	WarningSamples []string // up to maxWarningSamples examples for logs
	SkippedColumns int      // duplicate headers dropped
}

const maxWarningSamples = 5

// Record is one listing row addressed by canonical column name.
type Record map[string]Value

// Dataset is the immutable, column-indexed in-memory table.
type Dataset struct {
	columns []string
	index   map[string]int // schema.Normalize(name) -> position in columns
	kinds   []schema.FieldKind
	cells   [][]Value // column-major: cells[col][row]
	rows    int
	stats   LoadStats
}

// Load interprets a header plus data rows as a Dataset.
//
// It fails with *SchemaError only when the input has no usable shape: an
// empty or all-blank header, or a data row wider than the header. Rows
// shorter than the header are padded with Missing cells (absent columns are
// present-but-null). Duplicate headers keep the first occurrence; later
// duplicates are dropped and counted.
func Load(header []string, rows [][]string) (*Dataset, error) {
	cleaned := make([]string, 0, len(header))
	keep := make([]int, 0, len(header)) // source positions of kept columns
	seen := make(map[string]bool, len(header))
	skipped := 0

	for i, h := range header {
		name := schema.CanonicalName(h)
		if name == "" {
			continue
		}
		key := schema.Normalize(name)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, name)
		keep = append(keep, i)
	}

	if len(cleaned) == 0 {
		return nil, &SchemaError{Reason: "header has no usable columns"}
	}

	ds := &Dataset{
		columns: cleaned,
		index:   make(map[string]int, len(cleaned)),
		kinds:   make([]schema.FieldKind, len(cleaned)),
		cells:   make([][]Value, len(cleaned)),
		rows:    len(rows),
	}
	for i, name := range cleaned {
		ds.index[schema.Normalize(name)] = i
		ds.cells[i] = make([]Value, len(rows))
	}

	width := len(header)
	for r, row := range rows {
		if len(row) > width {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("row has %d fields, header has %d", len(row), width),
				Row:    r + 1,
			}
		}
		for c, src := range keep {
			var cell string
			if src < len(row) {
				cell = row[src]
			}
			ds.cells[c][r] = ParseValue(cell)
		}
	}

	ds.stats = LoadStats{
		Rows:           len(rows),
		Columns:        len(cleaned),
		SkippedColumns: skipped,
	}
	ds.resolveKinds()
	return ds, nil
}

// resolveKinds fixes each column's effective kind and tallies parse warnings.
// Known housing columns keep their declared kind; unknown columns are
// numeric only when every present cell parsed as a number.
func (ds *Dataset) resolveKinds() {
	for c, name := range ds.columns {
		if spec, ok := schema.Lookup(name); ok {
			ds.kinds[c] = spec.Kind
			if spec.Kind == schema.FieldNumeric || spec.Kind == schema.FieldCoordinate {
				ds.countWarnings(c, name)
			}
			continue
		}
		ds.kinds[c] = inferKind(ds.cells[c])
	}
}

// countWarnings records Text cells found in a declared-numeric column.
func (ds *Dataset) countWarnings(col int, name string) {
	for r, v := range ds.cells[col] {
		if v.Kind != Text {
			continue
		}
		ds.stats.ParseWarnings++
		if len(ds.stats.WarningSamples) < maxWarningSamples {
			ds.stats.WarningSamples = append(ds.stats.WarningSamples,
				fmt.Sprintf("%s row %d: %q", name, r+1, v.Raw))
		}
	}
}

func inferKind(col []Value) schema.FieldKind {
	present := 0
	for _, v := range col {
		switch v.Kind {
		case Text:
			return schema.FieldText
		case Number:
			present++
		}
	}
	if present == 0 {
		return schema.FieldText
	}
	return schema.FieldNumeric
}

// Columns returns the canonical column names in load order.
func (ds *Dataset) Columns() []string {
	out := make([]string, len(ds.columns))
	copy(out, ds.columns)
	return out
}

// RowCount returns the number of data rows.
func (ds *Dataset) RowCount() int {
	return ds.rows
}

// HasColumn reports whether a column exists, matching case-insensitively.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[schema.Normalize(name)]
	return ok
}

// Column returns all cells of one column in row order.
// The returned slice is shared with the Dataset; callers must not modify it.
func (ds *Dataset) Column(name string) ([]Value, bool) {
	c, ok := ds.index[schema.Normalize(name)]
	if !ok {
		return nil, false
	}
	return ds.cells[c], true
}

// ValueAt returns the cell at (column, row), or a Missing cell when the
// column does not exist. Row indices outside the dataset panic, matching
// slice semantics; callers hold visible-row indices which are always in
// range.
func (ds *Dataset) ValueAt(name string, row int) Value {
	c, ok := ds.index[schema.Normalize(name)]
	if !ok {
		return Value{Kind: Missing}
	}
	return ds.cells[c][row]
}

// Row materializes one row as a Record keyed by canonical column name.
func (ds *Dataset) Row(i int) Record {
	rec := make(Record, len(ds.columns))
	for c, name := range ds.columns {
		rec[name] = ds.cells[c][i]
	}
	return rec
}

// Kind returns the effective kind of a column: the declared housing-schema
// kind for known columns, the inferred kind otherwise, FieldText for
// columns that do not exist.
func (ds *Dataset) Kind(name string) schema.FieldKind {
	c, ok := ds.index[schema.Normalize(name)]
	if !ok {
		return schema.FieldText
	}
	return ds.kinds[c]
}

// Stats returns the load statistics for this dataset.
func (ds *Dataset) Stats() LoadStats {
	return ds.stats
}

// DistinctStrings returns the distinct non-missing stringified values of a
// column, sorted case-insensitively. Used to populate the exact-match
// filter choices (the State dropdown).
func (ds *Dataset) DistinctStrings(name string) []string {
	col, ok := ds.Column(name)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range col {
		s := v.String()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

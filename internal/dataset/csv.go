package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"housemap/internal/schema"
)

// MaxFileSize is the maximum allowed listings file size (256MB).
var MaxFileSize int64 = 256 * 1024 * 1024

// MaxHeaderSearchRows is the maximum number of rows to scan for the header.
var MaxHeaderSearchRows = 20

// ReadFile loads a listings file into a Dataset, dispatching on extension:
// .csv (and .txt) parse as delimited text, .shp as a point shapefile.
func ReadFile(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSVFile(path)
	case ".shp":
		return ReadShapefile(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .csv or .shp)", filepath.Ext(path))
	}
}

// ReadCSVFile loads a listings CSV from disk.
func ReadCSVFile(path string) (*Dataset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if fi.Size() > MaxFileSize {
		return nil, fmt.Errorf("dataset file exceeds %dMB limit", MaxFileSize/(1024*1024))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	start := time.Now()
	cr := newLoadReader(f)
	ds, err := ReadCSV(cr)
	if err != nil {
		return nil, err
	}

	slog.Debug("dataset file read",
		"path", path,
		"bytes", cr.bytesRead,
		"rows", ds.RowCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// ReadCSV parses listings CSV from r into a Dataset.
//
// The reader is tolerant of ragged quoting and varying field counts; shape
// problems that survive parsing are reported by Load as *SchemaError.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("parse csv: %v", err)}
	}
	if len(records) == 0 {
		return nil, &SchemaError{Reason: "empty file"}
	}

	headerIdx := findHeader(records)
	header := cleanRow(records[headerIdx])

	rows := make([][]string, 0, len(records)-headerIdx-1)
	for _, row := range records[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, cleanRow(row))
	}

	return Load(header, rows)
}

// findHeader scans the first MaxHeaderSearchRows rows for the first row
// mentioning a known housing column; exports sometimes carry title or
// comment lines above the real header. Falls back to the first non-empty
// row so generic CSVs without housing columns still load.
func findHeader(records [][]string) int {
	maxRows := MaxHeaderSearchRows
	if len(records) < maxRows {
		maxRows = len(records)
	}

	firstNonEmpty := 0
	seenNonEmpty := false
	for i := 0; i < maxRows; i++ {
		if isEmptyRow(records[i]) {
			continue
		}
		if !seenNonEmpty {
			firstNonEmpty = i
			seenNonEmpty = true
		}
		for _, cell := range records[i] {
			if _, ok := schema.Lookup(CleanCell(cell)); ok {
				return i
			}
		}
	}
	return firstNonEmpty
}

// cleanRow applies CleanCell to every cell of a row.
func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = CleanCell(cell)
	}
	return out
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return s
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

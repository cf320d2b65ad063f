package geomap

import (
	"fmt"
	"html"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"housemap/internal/dataset"
	"housemap/internal/schema"
)

// pricePrinter renders whole-dollar amounts with English thousands
// separators.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a cell as a currency label: "$2,500,000".
// Missing and unparseable prices format as "$0", never an error.
func FormatPrice(v dataset.Value) string {
	f, ok := v.Float()
	if !ok {
		return "$0"
	}
	return pricePrinter.Sprintf("$%.0f", f)
}

// popupHTML builds the marker popup for one listing row. Every field falls
// back to a placeholder when absent; the popup never fails to build.
func popupHTML(ds *dataset.Dataset, row int) string {
	return fmt.Sprintf(
		"<b>%s</b><br>%s, %s (%s)<br>Price: %s<br>Beds: %s | Baths: %s | Living Space: %s ft²",
		fieldOr(ds, schema.ColAddress, row, "?"),
		fieldOr(ds, schema.ColCity, row, "?"),
		fieldOr(ds, schema.ColState, row, "?"),
		fieldOr(ds, schema.ColZipCode, row, "?"),
		FormatPrice(ds.ValueAt(schema.ColPrice, row)),
		fieldOr(ds, schema.ColBeds, row, "?"),
		fieldOr(ds, schema.ColBaths, row, "?"),
		fieldOr(ds, schema.ColSpace, row, "?"),
	)
}

// fieldOr returns the HTML-escaped cell text, or the fallback for missing
// cells and absent columns.
func fieldOr(ds *dataset.Dataset, column string, row int, fallback string) string {
	s := ds.ValueAt(column, row).String()
	if s == "" {
		return fallback
	}
	return html.EscapeString(s)
}

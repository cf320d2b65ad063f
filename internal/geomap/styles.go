// Package geomap renders the filtered listings as a self-contained Leaflet
// map document: deterministic down-sampling, per-marker popup content, one
// shared cluster group, and an on-disk artifact store the viewer route
// serves from.
package geomap

import "sort"

// Render bounds and defaults.
const (
	MinZoom     = 1
	MaxZoom     = 12
	DefaultZoom = 4

	// DefaultSampleSize caps explicit renders unless the caller overrides it.
	DefaultSampleSize = 8000

	// LiveMarkerCeiling is the hard cap for the continuously regenerated
	// live map, which has no per-request sample control.
	LiveMarkerCeiling = 3000

	DefaultStyle = "openstreetmap"
)

// Continental-USA center, used when there is nothing to fit the view to.
const (
	defaultCenterLat = 39.5
	defaultCenterLon = -98.35
)

// TileStyle describes one selectable base layer.
type TileStyle struct {
	URL         string
	Attribution string
	MaxZoom     int
}

// tileStyles enumerates the selectable base layers.
var tileStyles = map[string]TileStyle{
	"openstreetmap": {
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		MaxZoom:     19,
	},
	"cartodb-positron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		MaxZoom:     20,
	},
	"stamen-terrain": {
		URL:         "https://tiles.stadiamaps.com/tiles/stamen_terrain/{z}/{x}/{y}{r}.png",
		Attribution: `Map tiles by <a href="https://stamen.com">Stamen Design</a>, hosted by <a href="https://stadiamaps.com/">Stadia Maps</a>. Data &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		MaxZoom:     18,
	},
	"stamen-toner": {
		URL:         "https://tiles.stadiamaps.com/tiles/stamen_toner/{z}/{x}/{y}{r}.png",
		Attribution: `Map tiles by <a href="https://stamen.com">Stamen Design</a>, hosted by <a href="https://stadiamaps.com/">Stadia Maps</a>. Data &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		MaxZoom:     18,
	},
}

// Styles returns the selectable style names, sorted.
func Styles() []string {
	names := make([]string, 0, len(tileStyles))
	for name := range tileStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// styleFor resolves a requested style name, falling back to the default for
// unknown names. Returns the resolved name alongside the style.
func styleFor(name string) (string, TileStyle) {
	if s, ok := tileStyles[name]; ok {
		return name, s
	}
	return DefaultStyle, tileStyles[DefaultStyle]
}

// clampZoom bounds a requested zoom level. Zero means "use the default".
func clampZoom(zoom int) int {
	switch {
	case zoom == 0:
		return DefaultZoom
	case zoom < MinZoom:
		return MinZoom
	case zoom > MaxZoom:
		return MaxZoom
	}
	return zoom
}

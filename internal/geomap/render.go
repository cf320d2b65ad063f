package geomap

// render.go builds the map artifact: samples the visible rows, converts
// them to markers, and executes the Leaflet document template into the
// artifact store. Clustering itself is delegated to Leaflet.markercluster;
// every marker goes into one shared cluster group so the plugin actually
// clusters.

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"housemap/internal/dataset"
	"housemap/internal/schema"
)

// Options selects how one render behaves. Zero values fall back to the
// renderer defaults, except Sample where 0 means "no sampling".
type Options struct {
	Style  string
	Zoom   int
	Sample int
}

// Artifact describes one rendered map document.
type Artifact struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Style   string `json:"style"`
	Zoom    int    `json:"zoom"`
	Markers int    `json:"markers"`
	Sampled bool   `json:"sampled"`
	Skipped int    `json:"skipped"`
}

// marker is one point in the rendered document, serialized into the
// artifact's script as JSON.
type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// document is the template payload for one artifact.
type document struct {
	Style       string
	TileURL     string
	Attribution string
	TileMaxZoom int
	Zoom        int
	CenterLat   float64
	CenterLon   float64
	Markers     []marker
}

// Renderer turns visible rows into map artifacts.
type Renderer struct {
	store    *Store
	defaults Options
}

// NewRenderer creates a renderer writing through the given store. The
// defaults fill in unset Options fields on each render and drive the live
// map, which has no per-request options.
func NewRenderer(store *Store, defaults Options) *Renderer {
	if defaults.Style == "" {
		defaults.Style = DefaultStyle
	}
	defaults.Zoom = clampZoom(defaults.Zoom)
	if defaults.Sample < 0 {
		defaults.Sample = 0
	}
	return &Renderer{store: store, defaults: defaults}
}

// Render produces a new write-once artifact from the given rows. When
// opts.Sample is positive and the row count exceeds it, the rows are
// down-sampled deterministically first.
func (r *Renderer) Render(ds *dataset.Dataset, rows []int, opts Options) (*Artifact, error) {
	opts = r.normalize(opts)

	kept := Sample(rows, opts.Sample)
	content, doc, skipped, err := r.compose(ds, kept, opts)
	if err != nil {
		return nil, err
	}

	id, path, err := r.store.Write(content)
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		ID:      id,
		Path:    path,
		Style:   doc.Style,
		Zoom:    doc.Zoom,
		Markers: len(doc.Markers),
		Sampled: len(kept) < len(rows),
		Skipped: skipped,
	}
	slog.Debug("rendered map artifact",
		"id", art.ID, "style", art.Style, "zoom", art.Zoom,
		"markers", art.Markers, "sampled", art.Sampled, "skipped", art.Skipped)
	return art, nil
}

// RenderLive regenerates the live slot from the given rows using the
// renderer defaults, capped at LiveMarkerCeiling.
func (r *Renderer) RenderLive(ds *dataset.Dataset, rows []int) (*Artifact, error) {
	opts := r.normalize(Options{Sample: LiveMarkerCeiling})

	kept := Sample(rows, LiveMarkerCeiling)
	content, doc, skipped, err := r.compose(ds, kept, opts)
	if err != nil {
		return nil, err
	}

	path, err := r.store.WriteLive(content)
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		ID:      LiveArtifactID,
		Path:    path,
		Style:   doc.Style,
		Zoom:    doc.Zoom,
		Markers: len(doc.Markers),
		Sampled: len(kept) < len(rows),
		Skipped: skipped,
	}
	slog.Debug("rendered live map",
		"markers", art.Markers, "sampled", art.Sampled, "skipped", art.Skipped)
	return art, nil
}

// normalize fills unset options from the defaults and bounds the zoom.
func (r *Renderer) normalize(opts Options) Options {
	if opts.Style == "" {
		opts.Style = r.defaults.Style
	}
	if opts.Zoom == 0 {
		opts.Zoom = r.defaults.Zoom
	}
	opts.Zoom = clampZoom(opts.Zoom)
	if opts.Sample < 0 {
		opts.Sample = 0
	}
	return opts
}

// compose executes the document template for the given rows.
func (r *Renderer) compose(ds *dataset.Dataset, rows []int, opts Options) ([]byte, document, int, error) {
	doc, skipped := buildDocument(ds, rows, opts)

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, doc); err != nil {
		return nil, document{}, 0, fmt.Errorf("execute map template: %w", err)
	}
	return buf.Bytes(), doc, skipped, nil
}

// buildDocument converts rows to markers and picks the view. An empty
// marker set, whether from no rows or no coordinate columns, centers on the
// continental-USA default at the default zoom rather than failing.
func buildDocument(ds *dataset.Dataset, rows []int, opts Options) (document, int) {
	name, style := styleFor(opts.Style)
	markers, skipped := collectMarkers(ds, rows)

	doc := document{
		Style:       name,
		TileURL:     style.URL,
		Attribution: style.Attribution,
		TileMaxZoom: style.MaxZoom,
		Zoom:        opts.Zoom,
		Markers:     markers,
	}

	if len(markers) == 0 {
		doc.Markers = []marker{}
		doc.CenterLat = defaultCenterLat
		doc.CenterLon = defaultCenterLon
		doc.Zoom = DefaultZoom
		return doc, skipped
	}

	var sumLat, sumLon float64
	for _, m := range markers {
		sumLat += m.Lat
		sumLon += m.Lon
	}
	doc.CenterLat = sumLat / float64(len(markers))
	doc.CenterLon = sumLon / float64(len(markers))
	return doc, skipped
}

// collectMarkers converts rows to markers, skipping rows without a usable
// coordinate pair. Skips are counted, never errors; the rows stay visible
// in the table and export views.
func collectMarkers(ds *dataset.Dataset, rows []int) (markers []marker, skipped int) {
	latCol, latOK := ds.Column(schema.ColLatitude)
	lonCol, lonOK := ds.Column(schema.ColLongitude)
	if !latOK || !lonOK {
		return nil, 0
	}

	for _, row := range rows {
		lat, ok := latCol[row].Float()
		if !ok || lat < -90 || lat > 90 {
			skipped++
			continue
		}
		lon, ok := lonCol[row].Float()
		if !ok || lon < -180 || lon > 180 {
			skipped++
			continue
		}
		markers = append(markers, marker{Lat: lat, Lon: lon, Popup: popupHTML(ds, row)})
	}
	return markers, skipped
}

// mapTemplate is the self-contained artifact document. Leaflet and the
// markercluster plugin load from CDN; everything else is inline, so the
// file opens standalone in any browser.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Housing Listings Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css"/>
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css"/>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer({{.TileURL}}, {
  attribution: {{.Attribution}},
  maxZoom: {{.TileMaxZoom}}
}).addTo(map);
var cluster = L.markerClusterGroup();
var markers = {{.Markers}};
for (var i = 0; i < markers.length; i++) {
  cluster.addLayer(L.marker([markers[i].lat, markers[i].lon]).bindPopup(markers[i].popup));
}
map.addLayer(cluster);
</script>
</body>
</html>
`))

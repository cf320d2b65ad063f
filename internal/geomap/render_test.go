package geomap

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"housemap/internal/dataset"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	store, err := NewStore(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return NewRenderer(store, Options{})
}

// newPointDataset has three listings, the middle one with an unparseable
// latitude.
func newPointDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(
		[]string{"Address", "City", "State", "Zip Code", "Price", "Latitude", "Longitude"},
		[][]string{
			{"1 Elm St", "Springfield", "IL", "62701", "100000", "39.80", "-89.65"},
			{"2 Oak Ave", "Chicago", "IL", "60601", "250000", "abc", "-87.63"},
			{"3 Pine Rd", "Colorado Springs", "CO", "80903", "99000", "38.83", "-104.82"},
		},
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return ds
}

func artifactContent(t *testing.T, art *Artifact) string {
	t.Helper()
	content, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact %s: %v", art.Path, err)
	}
	return string(content)
}

// ============================================================================
// Render Tests
// ============================================================================

func TestRender_SkipsBadCoordinates(t *testing.T) {
	r := newTestRenderer(t)
	ds := newPointDataset(t)

	art, err := r.Render(ds, []int{0, 1, 2}, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Markers != 2 {
		t.Errorf("Markers = %d, want 2", art.Markers)
	}
	if art.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", art.Skipped)
	}
}

func TestRender_OutOfRangeCoordinatesSkipped(t *testing.T) {
	r := newTestRenderer(t)
	ds, err := dataset.Load(
		[]string{"Address", "Latitude", "Longitude"},
		[][]string{
			{"ok", "39.8", "-89.65"},
			{"lat high", "95.0", "-89.65"},
			{"lon low", "39.8", "-181.0"},
		},
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	art, err := r.Render(ds, []int{0, 1, 2}, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Markers != 1 || art.Skipped != 2 {
		t.Errorf("Markers = %d, Skipped = %d, want 1 and 2", art.Markers, art.Skipped)
	}
}

func TestRender_EmptyRows(t *testing.T) {
	r := newTestRenderer(t)
	ds := newPointDataset(t)

	art, err := r.Render(ds, nil, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Markers != 0 {
		t.Errorf("Markers = %d, want 0", art.Markers)
	}

	content := artifactContent(t, art)
	if !strings.Contains(content, "setView([39.5, -98.35]") {
		t.Errorf("empty map not centered on continental-USA default:\n%s", content)
	}
}

func TestRender_NoCoordinateColumns(t *testing.T) {
	r := newTestRenderer(t)
	ds, err := dataset.Load(
		[]string{"Address", "Price"},
		[][]string{{"1 Elm St", "100000"}, {"2 Oak Ave", "250000"}},
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	art, err := r.Render(ds, []int{0, 1}, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Markers != 0 || art.Skipped != 0 {
		t.Errorf("Markers = %d, Skipped = %d, want 0 and 0", art.Markers, art.Skipped)
	}
	if content := artifactContent(t, art); !strings.Contains(content, "setView([39.5, -98.35]") {
		t.Error("map without coordinate columns should center on the default")
	}
}

func TestRender_SingleClusterGroup(t *testing.T) {
	r := newTestRenderer(t)
	ds := newPointDataset(t)

	art, err := r.Render(ds, []int{0, 1, 2}, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	content := artifactContent(t, art)
	if got := strings.Count(content, "L.markerClusterGroup()"); got != 1 {
		t.Errorf("markerClusterGroup count = %d, want 1", got)
	}
	if !strings.Contains(content, "leaflet.markercluster") {
		t.Error("artifact does not load the markercluster plugin")
	}
	if !strings.Contains(content, "Price: $100,000") {
		t.Error("artifact missing formatted price popup")
	}
}

func TestRender_StyleSelection(t *testing.T) {
	tests := []struct {
		name      string
		style     string
		wantStyle string
		wantURL   string
	}{
		{
			name:      "known style",
			style:     "cartodb-positron",
			wantStyle: "cartodb-positron",
			wantURL:   "basemaps.cartocdn.com",
		},
		{
			name:      "unknown style falls back",
			style:     "satellite",
			wantStyle: DefaultStyle,
			wantURL:   "tile.openstreetmap.org",
		},
		{
			name:      "empty style uses default",
			style:     "",
			wantStyle: DefaultStyle,
			wantURL:   "tile.openstreetmap.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t)
			ds := newPointDataset(t)

			art, err := r.Render(ds, []int{0, 2}, Options{Style: tt.style})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if art.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", art.Style, tt.wantStyle)
			}
			if content := artifactContent(t, art); !strings.Contains(content, tt.wantURL) {
				t.Errorf("artifact missing tile URL %q", tt.wantURL)
			}
		})
	}
}

func TestRender_ZoomClamped(t *testing.T) {
	tests := []struct {
		name string
		zoom int
		want int
	}{
		{name: "above maximum", zoom: 99, want: MaxZoom},
		{name: "below minimum", zoom: -5, want: MinZoom},
		{name: "zero uses default", zoom: 0, want: DefaultZoom},
		{name: "in range unchanged", zoom: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t)
			ds := newPointDataset(t)

			art, err := r.Render(ds, []int{0, 2}, Options{Zoom: tt.zoom})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if art.Zoom != tt.want {
				t.Errorf("Zoom = %d, want %d", art.Zoom, tt.want)
			}
		})
	}
}

func TestRender_SampleCapsMarkers(t *testing.T) {
	r := newTestRenderer(t)

	rows := make([][]string, 10)
	visible := make([]int, 10)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%d Main St", i), fmt.Sprintf("%1.2f", 30.0+float64(i)), "-95.0"}
		visible[i] = i
	}
	ds, err := dataset.Load([]string{"Address", "Latitude", "Longitude"}, rows)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	art, err := r.Render(ds, visible, Options{Sample: 4})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Markers != 4 {
		t.Errorf("Markers = %d, want 4", art.Markers)
	}
	if !art.Sampled {
		t.Error("Sampled = false, want true")
	}
}

func TestRenderLive_WritesSlot(t *testing.T) {
	r := newTestRenderer(t)
	ds := newPointDataset(t)

	art, err := r.RenderLive(ds, []int{0, 2})
	if err != nil {
		t.Fatalf("RenderLive() error = %v", err)
	}
	if art.ID != LiveArtifactID {
		t.Errorf("ID = %q, want %q", art.ID, LiveArtifactID)
	}
	if !strings.HasSuffix(art.Path, LiveArtifactID+artifactExt) {
		t.Errorf("Path = %q, want live slot", art.Path)
	}
	if _, err := os.Stat(art.Path); err != nil {
		t.Errorf("live slot not written: %v", err)
	}
}

package geomap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func countArtifacts(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read artifact dir: %v", err)
	}
	n := 0
	for _, ent := range entries {
		id := strings.TrimSuffix(ent.Name(), artifactExt)
		if _, err := uuid.Parse(id); err == nil {
			n++
		}
	}
	return n
}

// ============================================================================
// Store Tests
// ============================================================================

func TestStore_WriteAndPath(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	id, path, err := store.Write([]byte("<html>map</html>"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Write() id = %q, want UUID", id)
	}

	resolved, err := store.Path(id)
	if err != nil {
		t.Fatalf("Path(%q) error = %v", id, err)
	}
	if resolved != path {
		t.Errorf("Path() = %q, want %q", resolved, path)
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(content) != "<html>map</html>" {
		t.Errorf("artifact content = %q", content)
	}
}

func TestStore_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 2)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	first, _, err := store.Write([]byte("one"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, _, err := store.Write([]byte("two")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, _, err := store.Write([]byte("three")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := countArtifacts(t, dir); got != 2 {
		t.Errorf("artifacts on disk = %d, want 2", got)
	}
	if _, err := store.Path(first); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Path(pruned) error = %v, want not-exist", err)
	}
}

func TestStore_PathRejectsArbitraryIDs(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	tests := []struct {
		name string
		id   string
	}{
		{name: "traversal", id: "../../etc/passwd"},
		{name: "plain name", id: "index"},
		{name: "empty", id: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Path(tt.id); err == nil {
				t.Errorf("Path(%q) error = nil, want error", tt.id)
			}
		})
	}
}

func TestStore_PathUnknownUUID(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	_, err = store.Path(uuid.New().String())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Path(unknown) error = %v, want not-exist", err)
	}
}

func TestStore_WriteLiveReplacesSlot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	p1, err := store.WriteLive([]byte("first render"))
	if err != nil {
		t.Fatalf("WriteLive() error = %v", err)
	}
	p2, err := store.WriteLive([]byte("second render"))
	if err != nil {
		t.Fatalf("WriteLive() error = %v", err)
	}
	if p1 != p2 {
		t.Errorf("live path changed: %q then %q", p1, p2)
	}
	if want := filepath.Join(dir, LiveArtifactID+artifactExt); p2 != want {
		t.Errorf("live path = %q, want %q", p2, want)
	}

	content, err := os.ReadFile(p2)
	if err != nil {
		t.Fatalf("read live slot: %v", err)
	}
	if string(content) != "second render" {
		t.Errorf("live content = %q, want latest render", content)
	}

	if _, err := store.Path(LiveArtifactID); err != nil {
		t.Errorf("Path(live) error = %v", err)
	}

	// No leftover temp files from the rename dance.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read artifact dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want only the live slot", len(entries))
	}
}

func TestStore_ReindexesAfterRestart(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, 2)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := store.Write([]byte("one")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, _, err := store.Write([]byte("two")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// A fresh store over the same directory picks up the survivors, so the
	// next write still prunes down to the retention count.
	restarted, err := NewStore(dir, 2)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := restarted.Write([]byte("three")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := countArtifacts(t, dir); got != 2 {
		t.Errorf("artifacts after restart = %d, want 2", got)
	}
}

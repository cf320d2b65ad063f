package geomap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RenderIOError reports a map artifact that could not be written. The
// render that produced it fails; the process keeps running.
type RenderIOError struct {
	Path string
	Err  error
}

func (e *RenderIOError) Error() string {
	return fmt.Sprintf("write map artifact %s: %v", e.Path, e.Err)
}

func (e *RenderIOError) Unwrap() error { return e.Err }

// LiveArtifactID names the single reusable slot backing the live map.
const LiveArtifactID = "live"

const artifactExt = ".html"

// Store owns the artifact directory: write-once artifacts keyed by UUID,
// the stable live slot, path lookup for the viewer route, and pruning of
// superseded artifacts beyond the retention count.
type Store struct {
	dir  string
	keep int

	mu    sync.Mutex
	order []string // artifact IDs, oldest first
}

// NewStore creates the artifact directory if needed and indexes whatever
// artifacts survive from a previous run so pruning keeps working across
// restarts.
func NewStore(dir string, keep int) (*Store, error) {
	if keep < 1 {
		keep = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir, keep: keep, order: existingArtifacts(dir)}, nil
}

// existingArtifacts lists artifact IDs already on disk, oldest first.
// Non-UUID names, including the live slot, are ignored.
func existingArtifacts(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type aged struct {
		id  string
		mod time.Time
	}
	var found []aged
	for _, ent := range entries {
		name := ent.Name()
		if filepath.Ext(name) != artifactExt {
			continue
		}
		id := strings.TrimSuffix(name, artifactExt)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		found = append(found, aged{id: id, mod: info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].mod.Before(found[j].mod) })
	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids
}

// Write stores a new artifact and returns its ID and path. Artifacts beyond
// the retention count are pruned, oldest first.
func (s *Store) Write(content []byte) (id, path string, err error) {
	id = uuid.New().String()
	path = filepath.Join(s.dir, id+artifactExt)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", &RenderIOError{Path: path, Err: err}
	}

	s.mu.Lock()
	s.order = append(s.order, id)
	var stale []string
	if n := len(s.order) - s.keep; n > 0 {
		stale = s.order[:n]
		s.order = append([]string(nil), s.order[n:]...)
	}
	s.mu.Unlock()

	for _, old := range stale {
		p := filepath.Join(s.dir, old+artifactExt)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Debug("prune artifact failed", "path", p, "error", err)
		}
	}
	return id, path, nil
}

// WriteLive replaces the live slot. The write goes through a temp file and
// rename so a concurrent reader never sees a torn document.
func (s *Store) WriteLive(content []byte) (string, error) {
	path := filepath.Join(s.dir, LiveArtifactID+artifactExt)

	tmp, err := os.CreateTemp(s.dir, LiveArtifactID+"-*")
	if err != nil {
		return "", &RenderIOError{Path: path, Err: err}
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &RenderIOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &RenderIOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", &RenderIOError{Path: path, Err: err}
	}
	return path, nil
}

// Path resolves an artifact ID for serving. IDs are restricted to UUIDs and
// the live slot name, which keeps arbitrary path segments out of the
// filesystem lookup.
func (s *Store) Path(id string) (string, error) {
	if id != LiveArtifactID {
		if _, err := uuid.Parse(id); err != nil {
			return "", fmt.Errorf("invalid artifact id %q", id)
		}
	}
	path := filepath.Join(s.dir, id+artifactExt)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact %s: %w", id, err)
	}
	return path, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Artifact represents one on-disk dump file. Artifacts are created by the
// Executor and never mutated; metadata comes straight from the filesystem at
// discovery time.
type Artifact struct {
	Name      string    `json:"name"`
	Type      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

// Store enumerates dump files in the backup directory. There is no in-memory
// cache: every listing re-scans the directory, so results are always current.
type Store struct {
	dir string
}

// NewStore creates a Store over dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns the artifacts in the backup directory, most recent first.
// Entries with unsafe names are silently skipped rather than failing the whole
// listing.
func (s *Store) List() ([]Artifact, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSafe(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(s.dir, entry.Name()), err)
		}
		artifacts = append(artifacts, Artifact{
			Name:      entry.Name(),
			Type:      Classify(entry.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].CreatedAt.Equal(artifacts[j].CreatedAt) {
			return artifacts[i].Name > artifacts[j].Name
		}
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})

	return artifacts, nil
}

package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeArtifact(t *testing.T, dir, name string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("dump-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	s := NewStore(t.TempDir())

	artifacts, err := s.List()
	if err != nil {
		t.Fatalf("listing an empty directory should succeed, got: %v", err)
	}
	if artifacts == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(artifacts) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(artifacts))
	}
}

func TestListCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	s := NewStore(dir)

	if _, err := s.List(); err != nil {
		t.Fatalf("listing should create the directory, got: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	writeArtifact(t, dir, "manual-20260101-120000.dump", base)
	writeArtifact(t, dir, "daily-20260102-030000.dump", base.Add(10*time.Minute))
	writeArtifact(t, dir, "manual-20260103-090000.dump", base.Add(20*time.Minute))

	artifacts, err := NewStore(dir).List()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"manual-20260103-090000.dump",
		"daily-20260102-030000.dump",
		"manual-20260101-120000.dump",
	}
	if len(artifacts) != len(want) {
		t.Fatalf("expected %d artifacts, got %d", len(want), len(artifacts))
	}
	for i, name := range want {
		if artifacts[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, artifacts[i].Name)
		}
	}

	if artifacts[1].Type != KindDaily {
		t.Fatalf("expected daily type, got %s", artifacts[1].Type)
	}
	if artifacts[0].Size != int64(len("dump-bytes")) {
		t.Fatalf("unexpected size: %d", artifacts[0].Size)
	}
}

func TestListFiltersUnsafeNames(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	writeArtifact(t, dir, "manual-20260101-120000.dump", now)
	writeArtifact(t, dir, "not-a-dump.txt", now)
	writeArtifact(t, dir, "spaced name.dump", now)
	if err := os.Mkdir(filepath.Join(dir, "nested.dump"), 0o755); err != nil {
		t.Fatal(err)
	}

	artifacts, err := NewStore(dir).List()
	if err != nil {
		t.Fatalf("unsafe entries should be skipped, not fail the listing: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != "manual-20260101-120000.dump" {
		t.Fatalf("expected only the safe artifact, got %+v", artifacts)
	}
}

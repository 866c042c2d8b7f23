package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

func TestPurgeOlderThan(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	reaper := NewReaper(store)

	if err := store.Create("stale", window.ID("1"), "/app"); err != nil {
		t.Fatal(err)
	}
	if err := store.Create("fresh", window.ID("2"), "/app"); err != nil {
		t.Fatal(err)
	}
	// Orphaned lock next to the stale record.
	if err := os.WriteFile(filepath.Join(dir, "stale.lock"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-6 * 24 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "stale"), old, old); err != nil {
		t.Fatal(err)
	}
	recent := time.Now().Add(-3 * 24 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "fresh"), recent, recent); err != nil {
		t.Fatal(err)
	}

	removed, err := reaper.PurgeOlderThan(5 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOlderThan() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("PurgeOlderThan() removed %d, want 1", removed)
	}

	if _, err := store.Load("stale"); err != ErrNotFound {
		t.Error("stale record survived purge")
	}
	if _, err := os.Stat(filepath.Join(dir, "stale.lock")); !os.IsNotExist(err) {
		t.Error("stale lock survived purge")
	}
	if _, err := store.Load("fresh"); err != nil {
		t.Errorf("fresh record purged: %v", err)
	}
}

func TestPurgeOlderThanEmptyDir(t *testing.T) {
	reaper := NewReaper(NewStore(filepath.Join(t.TempDir(), "absent")))

	removed, err := reaper.PurgeOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOlderThan() error: %v", err)
	}
	if removed != 0 {
		t.Errorf("PurgeOlderThan() removed %d, want 0", removed)
	}
}

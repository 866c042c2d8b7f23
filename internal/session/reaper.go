package session

import (
	"log"
	"os"
	"time"
)

// Reaper removes session records left behind by sessions that never
// ran cleanup. Age is judged by file modification time, which the
// dedup guard refreshes on every successful notify.
type Reaper struct {
	store *Store
}

// NewReaper creates a reaper over the given store.
func NewReaper(store *Store) *Reaper {
	return &Reaper{store: store}
}

// PurgeOlderThan deletes every record whose file is older than age and
// returns how many were removed. Individual removal failures are
// logged and skipped so one stuck file cannot block the sweep.
func (r *Reaper) PurgeOlderThan(age time.Duration) (int, error) {
	entries, err := r.store.ListAll()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove stale session %s: %v", entry.SessionID, err)
			continue
		}
		if err := os.Remove(entry.Path + lockSuffix); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove stale lock for %s: %v", entry.SessionID, err)
		}
		removed++
	}
	return removed, nil
}

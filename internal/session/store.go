// Package session persists the per-session window record that init
// captures and notify reads back.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/trentmcnitt/cc-notifier/pkg/window"
)

// ErrNotFound is returned when a session has no usable record. A
// malformed or unreadable record is reported the same way; corruption
// is treated as absence, never surfaced as a parse error.
var ErrNotFound = errors.New("session record not found")

// Record is one session's stored state. Identity fields are written
// once by Create; only LastNotified is ever rewritten.
type Record struct {
	WindowID     window.ID
	AppPath      string
	CreatedAt    time.Time
	LastNotified time.Time
}

// Entry describes one record file on disk.
type Entry struct {
	SessionID string
	Path      string
	ModTime   time.Time
}

// Store reads and writes session records, one line-oriented file per
// session id under a single base directory. The directory is injected
// so tests can point the store at an isolated location.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create writes the record for a session, silently overwriting any
// previous one.
func (s *Store) Create(sessionID string, windowID window.ID, appPath string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	rec := &Record{
		WindowID:  windowID,
		AppPath:   appPath,
		CreatedAt: time.Now(),
	}
	if err := os.WriteFile(s.path(sessionID), encodeRecord(rec), 0o644); err != nil {
		return errors.Wrap(err, "failed to write session record")
	}
	return nil
}

// Load returns the record for a session, or ErrNotFound when it is
// missing or unreadable in any way.
func (s *Store) Load(sessionID string) (*Record, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return nil, ErrNotFound
	}

	rec, err := parseRecord(data)
	if err != nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Delete removes a session's record and lock file, succeeding silently
// when either is already absent.
func (s *Store) Delete(sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := os.Remove(s.path(sessionID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete session record")
	}
	if err := os.Remove(s.lockPath(sessionID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete session lock")
	}
	return nil
}

// ListAll returns every record file with its modification time. Lock
// files are not records and are skipped. A missing base directory
// yields an empty list.
func (s *Store) ListAll() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read session directory")
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasSuffix(de.Name(), lockSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			SessionID: de.Name(),
			Path:      filepath.Join(s.dir, de.Name()),
			ModTime:   info.ModTime(),
		})
	}
	return entries, nil
}

const lockSuffix = ".lock"

// ShouldNotify is the dedup guard for the local alert channel. It
// holds a session-scoped, non-blocking file lock only across the
// read-compare-write of the last-notified timestamp: a lock that is
// already held means a concurrent notify for the same session is mid
// decision, so this one yields. Within the dedup window the answer is
// false; otherwise the timestamp is advanced before the lock drops so
// near-simultaneous invocations cannot both send.
func (s *Store) ShouldNotify(sessionID string, dedupWindow time.Duration) (bool, error) {
	if err := validateSessionID(sessionID); err != nil {
		return false, err
	}

	lock := flock.New(s.lockPath(sessionID))
	locked, err := lock.TryLock()
	if err != nil {
		return false, errors.Wrap(err, "failed to acquire session lock")
	}
	if !locked {
		return false, nil
	}
	defer lock.Unlock()

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return false, ErrNotFound
	}
	rec, err := parseRecord(data)
	if err != nil {
		return false, ErrNotFound
	}

	now := time.Now()
	if now.Sub(rec.LastNotified) < dedupWindow {
		return false, nil
	}

	rec.LastNotified = now
	if err := os.WriteFile(s.path(sessionID), encodeRecord(rec), 0o644); err != nil {
		return false, errors.Wrap(err, "failed to update session record")
	}
	return true, nil
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID)
}

func (s *Store) lockPath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+lockSuffix)
}

// validateSessionID rejects ids that would escape the base directory.
func validateSessionID(sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if strings.ContainsAny(sessionID, "/\\") || sessionID == "." || sessionID == ".." {
		return errors.Errorf("invalid session id %q", sessionID)
	}
	return nil
}

// encodeRecord renders a record in the line-oriented on-disk format:
// window id, app path, creation time (unix seconds), last-notified
// time (unix nanoseconds, 0 when never).
func encodeRecord(rec *Record) []byte {
	var lastNotified int64
	if !rec.LastNotified.IsZero() {
		lastNotified = rec.LastNotified.UnixNano()
	}
	return fmt.Appendf(nil, "%s\n%s\n%d\n%d\n",
		rec.WindowID, rec.AppPath, rec.CreatedAt.Unix(), lastNotified)
}

// parseRecord is the inverse of encodeRecord.
func parseRecord(data []byte) (*Record, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 4 {
		return nil, errors.Errorf("session record has %d lines, want 4", len(lines))
	}

	createdUnix, err := strconv.ParseInt(strings.TrimSpace(lines[2]), 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "malformed creation time")
	}
	notifiedNanos, err := strconv.ParseInt(strings.TrimSpace(lines[3]), 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "malformed last-notified time")
	}

	rec := &Record{
		WindowID:  window.ID(strings.TrimSpace(lines[0])),
		AppPath:   lines[1],
		CreatedAt: time.Unix(createdUnix, 0),
	}
	if notifiedNanos > 0 {
		rec.LastNotified = time.Unix(0, notifiedNanos)
	}
	return rec, nil
}

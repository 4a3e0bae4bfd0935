// Package store persists session records as one JSON file per shell scope
// under the XDG data directory. Saves are atomic (write to a temp file,
// then rename) so an interrupted write never leaves a half-written record.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/asward/envision/internal/session"
)

// Sentinel errors reported by Load.
var (
	// ErrNotFound means no session record exists for the scope.
	ErrNotFound = errors.New("session not found")
	// ErrCorrupt means a record exists but cannot be read or parsed.
	// Read-only queries report it as data; destructive operations refuse
	// to proceed against it.
	ErrCorrupt = errors.New("session data corrupted")
	// ErrNoHome means neither XDG_DATA_HOME nor HOME is set.
	ErrNoHome = errors.New("cannot determine storage location: neither XDG_DATA_HOME nor HOME is set")
)

// Scope identifies the shell instance owning a session record.
// It is the shell's process id, passed explicitly to every operation.
type Scope int

// Store reads and writes session records under dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store { return &Store{dir: dir} }

// DefaultDir resolves the session directory:
// $XDG_DATA_HOME/envision/sessions, else $HOME/.local/share/envision/sessions.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "envision", "sessions"), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", "envision", "sessions"), nil
	}
	return "", ErrNoHome
}

// Dir returns the directory this store reads and writes.
func (s *Store) Dir() string { return s.dir }

// Path returns the record path for scope.
func (s *Store) Path(scope Scope) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", int(scope)))
}

// Exists reports whether a record exists for scope.
func (s *Store) Exists(scope Scope) bool {
	_, err := os.Stat(s.Path(scope))
	return err == nil
}

// Load reads the session record for scope. A missing record yields
// ErrNotFound; an unreadable or unparseable one yields ErrCorrupt with the
// underlying reason attached.
func (s *Store) Load(scope Scope) (*session.Session, error) {
	path := s.Path(scope)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w for scope %d", ErrNotFound, int(scope))
	}
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrCorrupt, path, err)
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrCorrupt, path, err)
	}
	if sess.Baseline == nil {
		return nil, fmt.Errorf("%w (%s): record has no baseline", ErrCorrupt, path)
	}
	return &sess, nil
}

// Save writes the session record for its owning scope atomically.
func (s *Store) Save(sess *session.Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("store.Save: create dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("store.Save: encode: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("store.Save: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.Save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(Scope(sess.Pid))); err != nil {
		return fmt.Errorf("store.Save: replace: %w", err)
	}
	return nil
}

// Remove deletes the record for scope if it exists.
func (s *Store) Remove(scope Scope) error {
	err := os.Remove(s.Path(scope))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store.Remove: %w", err)
	}
	return nil
}

// Stale lists scopes whose owning shell process is no longer running.
func (s *Store) Stale() ([]Scope, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Stale: %w", err)
	}
	var stale []Scope
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if !processAlive(pid) {
			stale = append(stale, Scope(pid))
		}
	}
	return stale, nil
}

// processAlive probes pid with signal 0.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

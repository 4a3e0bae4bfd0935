// Package session defines the tracking session record: the baseline
// snapshot captured at init, the append-only change log, and a bounded
// list of auto-snapshots taken before mutating operations.
package session

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Environment variables managed by envision itself. They carry banner and
// session state between invocations and are excluded from baselines and
// change detection.
const (
	SessionIDVar       = "ENVISION_SESSION_ID"
	TrackedVar         = "ENVISION_TRACKED"
	DirtyVar           = "ENVISION_DIRTY"
	ProfileVar         = "ENVISION_PROFILE"
	ProfileChecksumVar = "ENVISION_PROFILE_CHECKSUM"
)

var managedVars = map[string]bool{
	SessionIDVar:       true,
	TrackedVar:         true,
	DirtyVar:           true,
	ProfileVar:         true,
	ProfileChecksumVar: true,
}

// IsManaged reports whether name is an envision-managed variable.
func IsManaged(name string) bool { return managedVars[name] }

// criticalVars lists system-critical variables that warrant a warning
// before modification.
var criticalVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"TERM": true, "LANG": true, "PWD": true, "OLDPWD": true,
	"LD_LIBRARY_PATH": true, "LD_PRELOAD": true,
}

// IsCritical reports whether name is a system-critical variable.
func IsCritical(name string) bool { return criticalVars[name] }

// ErrInvalidName is returned when a variable name violates POSIX naming rules.
var ErrInvalidName = errors.New("invalid variable name")

// ErrManagedName is returned when a command targets an envision-managed
// variable. Managed variables carry session state and are excluded from
// baselines and diffs, so tracking a change to one would never reconcile.
var ErrManagedName = errors.New("variable is managed by envision")

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName checks that name follows POSIX variable naming rules.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter or underscore and contain only letters, digits, and underscores", ErrInvalidName, name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Record types
// ---------------------------------------------------------------------------

// Op is the kind of tracked operation.
type Op string

// Tracked operation kinds.
const (
	OpSet   Op = "set"
	OpUnset Op = "unset"
)

// SourceManual marks a change made through a direct set/unset command.
// Profile-applied changes carry "profile:<name>" instead.
const SourceManual = "manual"

// ChangeRecord is one entry in the append-only change log. Previous holds
// the live value observed at the time of the operation (nil if the variable
// was absent), New holds the value written by a Set (nil for Unset).
type ChangeRecord struct {
	Name     string    `json:"name"`
	Op       Op        `json:"op"`
	Previous *string   `json:"previous,omitempty"`
	New      *string   `json:"new,omitempty"`
	At       time.Time `json:"at"`
	Source   string    `json:"source"`
}

// AutoSnapshot is a copy of the change log taken before a mutating
// operation. The list is bounded; the oldest snapshot is pruned first.
type AutoSnapshot struct {
	Label   string         `json:"label"`
	TakenAt time.Time      `json:"taken_at"`
	Changes []ChangeRecord `json:"changes"`
}

// Session is the persisted tracking record for one shell scope.
// Baseline is write-once for the session lifetime: it is replaced only by
// re-initializing with --force.
type Session struct {
	ID              string            `json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	Pid             int               `json:"pid"`
	Baseline        map[string]string `json:"baseline"`
	Changes         []ChangeRecord    `json:"changes"`
	Snapshots       []AutoSnapshot    `json:"snapshots,omitempty"`
	Profile         string            `json:"profile,omitempty"`
	ProfileChecksum string            `json:"profile_checksum,omitempty"`
}

// New captures the full live environment as the baseline for a fresh
// session owned by the shell with the given pid. Managed variables are
// excluded from the baseline.
func New(pid int, env map[string]string) *Session {
	now := time.Now().UTC()
	baseline := make(map[string]string, len(env))
	for k, v := range env {
		if IsManaged(k) {
			continue
		}
		baseline[k] = v
	}
	return &Session{
		ID:        newID(pid, now.Unix()),
		CreatedAt: now,
		Pid:       pid,
		Baseline:  baseline,
		Changes:   []ChangeRecord{},
	}
}

// Latest returns the most recent change record for name, or nil.
func (s *Session) Latest(name string) *ChangeRecord {
	for i := len(s.Changes) - 1; i >= 0; i-- {
		if s.Changes[i].Name == name {
			return &s.Changes[i]
		}
	}
	return nil
}

// TrackedNames returns the distinct variable names present in the change
// log, in first-seen order.
func (s *Session) TrackedNames() []string {
	seen := make(map[string]bool, len(s.Changes))
	var names []string
	for _, rec := range s.Changes {
		if !seen[rec.Name] {
			seen[rec.Name] = true
			names = append(names, rec.Name)
		}
	}
	return names
}

// BaselineValue returns the baseline value for name and whether it existed
// at session start.
func (s *Session) BaselineValue(name string) (string, bool) {
	v, ok := s.Baseline[name]
	return v, ok
}

// newID derives a short hex session id from the owner pid and timestamp.
func newID(pid int, ts int64) string {
	h := uint64(0x517cc1b727220a95)
	h ^= uint64(pid)
	h *= 0x9e3779b97f4a7c15
	h ^= uint64(ts)
	h *= 0x9e3779b97f4a7c15
	h ^= h >> 27
	return fmt.Sprintf("%08x", uint32(h>>32))
}

func strptr(s string) *string { return &s }

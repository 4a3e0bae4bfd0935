package session

import (
	"fmt"
	"time"
)

// OverwriteKind describes what a Set replaced.
type OverwriteKind string

// Overwrite kinds reported by TrackSet.
const (
	OverwroteNone      OverwriteKind = ""
	OverwroteTracked   OverwriteKind = "tracked"
	OverwroteUntracked OverwriteKind = "untracked"
)

// PreviousKind describes what kind of value an Unset removed.
type PreviousKind string

// Previous-value kinds reported by TrackUnset.
const (
	PrevTracked   PreviousKind = "tracked"
	PrevOriginal  PreviousKind = "original"
	PrevUntracked PreviousKind = "untracked"
)

// SetResult reports the outcome of TrackSet.
type SetResult struct {
	Previous   *string
	Overwrote  OverwriteKind
	AlreadySet bool
}

// UnsetResult reports the outcome of TrackUnset. Missing means the variable
// was absent from the live environment and no record was appended.
type UnsetResult struct {
	Previous *string
	Kind     PreviousKind
	Missing  bool
}

// Tracker appends change records to a session, taking an auto-snapshot of
// the log before each mutating operation. SnapshotLimit bounds the snapshot
// list; Now is swappable for tests.
type Tracker struct {
	Session       *Session
	SnapshotLimit int
	Now           func() time.Time
}

// NewTracker returns a Tracker over sess with the given snapshot limit.
func NewTracker(sess *Session, snapshotLimit int) *Tracker {
	return &Tracker{Session: sess, SnapshotLimit: snapshotLimit, Now: time.Now}
}

// TrackSet records a Set of name to value. live is the true current live
// value at the time of the operation (nil if absent); it becomes the
// record's previous value so the change can be stepped back. When the live
// value already equals the target the auto-snapshot is skipped and the
// result reports AlreadySet.
func (t *Tracker) TrackSet(name, value string, live *string, source string) SetResult {
	res := SetResult{Previous: live}

	if t.Session.Latest(name) != nil {
		res.Overwrote = OverwroteTracked
	} else if live != nil {
		base, inBase := t.Session.Baseline[name]
		if !inBase || base != *live {
			res.Overwrote = OverwroteUntracked
		}
	}

	if live != nil && *live == value {
		res.AlreadySet = true
	} else {
		t.snapshot(fmt.Sprintf("set %s", name))
	}

	t.Session.Changes = append(t.Session.Changes, ChangeRecord{
		Name:     name,
		Op:       OpSet,
		Previous: live,
		New:      strptr(value),
		At:       t.Now().UTC(),
		Source:   source,
	})
	return res
}

// TrackUnset records an Unset of name. live is the current live value; if
// the variable is absent no record is appended and Missing is reported,
// which callers treat as a non-fatal warning.
func (t *Tracker) TrackUnset(name string, live *string, source string) UnsetResult {
	if live == nil {
		return UnsetResult{Missing: true}
	}

	res := UnsetResult{Previous: live, Kind: PrevUntracked}
	if t.Session.Latest(name) != nil {
		res.Kind = PrevTracked
	} else if _, ok := t.Session.Baseline[name]; ok {
		res.Kind = PrevOriginal
	}

	t.snapshot(fmt.Sprintf("unset %s", name))
	t.Session.Changes = append(t.Session.Changes, ChangeRecord{
		Name:     name,
		Op:       OpUnset,
		Previous: live,
		At:       t.Now().UTC(),
		Source:   source,
	})
	return res
}

// snapshot copies the current change log onto the snapshot list, pruning
// the oldest entries down to the limit. The baseline itself is never part
// of a snapshot and is never pruned.
func (t *Tracker) snapshot(label string) {
	if t.SnapshotLimit <= 0 {
		return
	}
	changes := make([]ChangeRecord, len(t.Session.Changes))
	copy(changes, t.Session.Changes)
	t.Session.Snapshots = append(t.Session.Snapshots, AutoSnapshot{
		Label:   label,
		TakenAt: t.Now().UTC(),
		Changes: changes,
	})
	if over := len(t.Session.Snapshots) - t.SnapshotLimit; over > 0 {
		t.Session.Snapshots = t.Session.Snapshots[over:]
	}
}

// Package diff implements the pure three-way classification engine over
// (baseline, change log, live environment). It never mutates its inputs
// and never touches process state, so every query re-derives classification
// from the sources instead of trusting a stored status.
package diff

import (
	"path"
	"sort"

	"github.com/asward/envision/internal/session"
)

// Category classifies a variable's relation to the baseline and the log.
type Category string

// Classification categories. Every name in baseline ∪ live ∪ log receives
// exactly one.
const (
	// Original: present in baseline, no record, live matches baseline.
	Original Category = "original"
	// TrackedSet: latest record is a Set and live matches its target.
	TrackedSet Category = "tracked-set"
	// TrackedUnset: latest record is an Unset and the variable is absent.
	TrackedUnset Category = "tracked-unset"
	// TrackedThenDrifted: the tool touched the variable last, but live no
	// longer matches the record's target.
	TrackedThenDrifted Category = "drifted"
	// Untracked: live differs from the expected state with no record.
	// External additions, edits, and removals all land here; a removal is
	// an entry whose New value is absent.
	Untracked Category = "untracked"
)

// Tracked reports whether c is a tool-owned category.
func (c Category) Tracked() bool {
	return c == TrackedSet || c == TrackedUnset || c == TrackedThenDrifted
}

// Entry is one classified variable. Old is the baseline value, New the live
// value, Want the tracked target for tool-touched variables; each is nil
// when absent. Values are byte-exact; truncation and escaping belong to
// the render layer.
type Entry struct {
	Name     string
	Category Category
	Old      *string
	New      *string
	Want     *string
	Source   string
}

// Filter is a pure predicate over entries.
type Filter func(Entry) bool

// TrackedOnly keeps entries whose variable the tool last touched.
func TrackedOnly(e Entry) bool { return e.Category.Tracked() }

// UntrackedOnly keeps externally changed entries.
func UntrackedOnly(e Entry) bool { return e.Category == Untracked }

// MatchPattern keeps entries whose name matches the glob pattern.
func MatchPattern(pattern string) Filter {
	return func(e Entry) bool {
		ok, err := path.Match(pattern, e.Name)
		return err == nil && ok
	}
}

// Compute classifies every name in the union of baseline keys, live keys,
// and log keys, returning entries sorted by name. Envision-managed
// variables are skipped. Filters are ANDed; Original entries are included
// so callers can count unchanged variables.
func Compute(baseline map[string]string, changes []session.ChangeRecord, live map[string]string, filters ...Filter) []Entry {
	names := make(map[string]bool, len(baseline)+len(live))
	for k := range baseline {
		names[k] = true
	}
	for k := range live {
		if !session.IsManaged(k) {
			names[k] = true
		}
	}
	for _, rec := range changes {
		names[rec.Name] = true
	}

	entries := make([]Entry, 0, len(names))
next:
	for name := range names {
		e := classify(name, baseline, changes, live)
		for _, keep := range filters {
			if !keep(e) {
				continue next
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// classify derives the category for one name. Value equality takes
// precedence over event history: a variable externally rewritten back to
// the tool's own target still counts as tracked, not drifted.
func classify(name string, baseline map[string]string, changes []session.ChangeRecord, live map[string]string) Entry {
	e := Entry{Name: name}
	if v, ok := baseline[name]; ok {
		e.Old = &v
	}
	if v, ok := live[name]; ok {
		e.New = &v
	}

	var latest *session.ChangeRecord
	for i := len(changes) - 1; i >= 0; i-- {
		if changes[i].Name == name {
			latest = &changes[i]
			break
		}
	}

	if latest == nil {
		switch {
		case e.Old != nil && e.New != nil && *e.Old == *e.New:
			e.Category = Original
		default:
			// Added, edited, or removed outside the tool.
			e.Category = Untracked
		}
		return e
	}

	e.Source = latest.Source
	switch latest.Op {
	case session.OpSet:
		e.Want = latest.New
		if e.New != nil && latest.New != nil && *e.New == *latest.New {
			e.Category = TrackedSet
		} else {
			e.Category = TrackedThenDrifted
		}
	case session.OpUnset:
		if e.New == nil {
			e.Category = TrackedUnset
		} else {
			e.Category = TrackedThenDrifted
		}
	}
	return e
}

// Summary aggregates entry counts for status reporting.
type Summary struct {
	Tracked   int
	Untracked int
	Unchanged int
}

// Summarize counts entries per bucket. Dirty state is Untracked > 0.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch {
		case e.Category == Original:
			s.Unchanged++
		case e.Category.Tracked():
			s.Tracked++
		default:
			s.Untracked++
		}
	}
	return s
}

package diff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/asward/envision/internal/diff"
	"github.com/asward/envision/internal/session"
)

func strptr(s string) *string { return &s }

func setRecord(name, value string, prev *string) session.ChangeRecord {
	return session.ChangeRecord{Name: name, Op: session.OpSet, Previous: prev, New: strptr(value), Source: session.SourceManual}
}

func unsetRecord(name, prev string) session.ChangeRecord {
	return session.ChangeRecord{Name: name, Op: session.OpUnset, Previous: strptr(prev), Source: session.SourceManual}
}

func entryFor(c *qt.C, entries []diff.Entry, name string) diff.Entry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	c.Fatalf("no entry for %s", name)
	return diff.Entry{}
}

func TestCompute_Categories(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"HOME": "/home/u", "PATH": "/usr/bin", "GONE": "x", "EDITED": "old"}
	changes := []session.ChangeRecord{
		setRecord("FOO", "bar", nil),
		unsetRecord("HOME", "/home/u"),
		setRecord("DRIFT", "2", strptr("1")),
	}
	live := map[string]string{
		"PATH":   "/usr/bin", // untouched
		"FOO":    "bar",      // tracked set, live matches
		"EDITED": "new",      // externally edited
		"NEW":    "hello",    // externally added
		"DRIFT":  "3",        // tool set 2, external actor set 3
	}

	entries := diff.Compute(baseline, changes, live)

	tests := []struct {
		name string
		want diff.Category
	}{
		{"PATH", diff.Original},
		{"FOO", diff.TrackedSet},
		{"HOME", diff.TrackedUnset},
		{"DRIFT", diff.TrackedThenDrifted},
		{"EDITED", diff.Untracked},
		{"NEW", diff.Untracked},
		{"GONE", diff.Untracked},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(entryFor(c, entries, tt.name).Category, qt.Equals, tt.want)
		})
	}
}

func TestCompute_TotalityAndOrder(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"B": "1", "A": "1"}
	changes := []session.ChangeRecord{setRecord("C", "x", nil)}
	live := map[string]string{"A": "1", "B": "2", "C": "x", "D": "y"}

	entries := diff.Compute(baseline, changes, live)

	// Every name in the union appears exactly once, sorted.
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		c.Assert(e.Category, qt.Not(qt.Equals), diff.Category(""))
	}
	c.Assert(names, qt.DeepEquals, []string{"A", "B", "C", "D"})
}

func TestCompute_DriftBackToTargetIsTrackedSet(t *testing.T) {
	c := qt.New(t)

	// Tool set A=2, an external actor rewrote it to 2 again: value
	// equality takes precedence over event history.
	baseline := map[string]string{"A": "1"}
	changes := []session.ChangeRecord{setRecord("A", "2", strptr("1"))}
	live := map[string]string{"A": "2"}

	entries := diff.Compute(baseline, changes, live)
	c.Assert(entryFor(c, entries, "A").Category, qt.Equals, diff.TrackedSet)
}

func TestCompute_UnsetThenReappearedIsDrifted(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"A": "1"}
	changes := []session.ChangeRecord{unsetRecord("A", "1")}
	live := map[string]string{"A": "resurrected"}

	entries := diff.Compute(baseline, changes, live)
	c.Assert(entryFor(c, entries, "A").Category, qt.Equals, diff.TrackedThenDrifted)
}

func TestCompute_ExternalRemovalHasNoNewValue(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"GONE": "x"}
	entries := diff.Compute(baseline, nil, map[string]string{})

	e := entryFor(c, entries, "GONE")
	c.Assert(e.Category, qt.Equals, diff.Untracked)
	c.Assert(*e.Old, qt.Equals, "x")
	c.Assert(e.New, qt.IsNil)
}

func TestCompute_LatestRecordWins(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{}
	changes := []session.ChangeRecord{
		setRecord("A", "first", nil),
		setRecord("A", "second", strptr("first")),
	}

	entries := diff.Compute(baseline, changes, map[string]string{"A": "second"})
	e := entryFor(c, entries, "A")
	c.Assert(e.Category, qt.Equals, diff.TrackedSet)
	c.Assert(*e.Want, qt.Equals, "second")
}

func TestCompute_SkipsManagedVars(t *testing.T) {
	c := qt.New(t)

	live := map[string]string{session.SessionIDVar: "abc", session.DirtyVar: "0"}
	entries := diff.Compute(map[string]string{}, nil, live)
	c.Assert(entries, qt.HasLen, 0)
}

func TestCompute_Filters(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"KEEP": "1"}
	changes := []session.ChangeRecord{setRecord("TRACKED_A", "x", nil)}
	live := map[string]string{"KEEP": "1", "TRACKED_A": "x", "EXTERNAL": "y"}

	c.Run("tracked only", func(c *qt.C) {
		entries := diff.Compute(baseline, changes, live, diff.TrackedOnly)
		c.Assert(entries, qt.HasLen, 1)
		c.Assert(entries[0].Name, qt.Equals, "TRACKED_A")
	})

	c.Run("untracked only", func(c *qt.C) {
		entries := diff.Compute(baseline, changes, live, diff.UntrackedOnly)
		c.Assert(entries, qt.HasLen, 1)
		c.Assert(entries[0].Name, qt.Equals, "EXTERNAL")
	})

	c.Run("pattern", func(c *qt.C) {
		entries := diff.Compute(baseline, changes, live, diff.MatchPattern("TRACKED_*"))
		c.Assert(entries, qt.HasLen, 1)
		c.Assert(entries[0].Name, qt.Equals, "TRACKED_A")
	})

	c.Run("filters compose", func(c *qt.C) {
		entries := diff.Compute(baseline, changes, live, diff.TrackedOnly, diff.MatchPattern("KEEP"))
		c.Assert(entries, qt.HasLen, 0)
	})
}

func TestSummarize(t *testing.T) {
	c := qt.New(t)

	baseline := map[string]string{"A": "1", "B": "1"}
	changes := []session.ChangeRecord{setRecord("C", "x", nil)}
	live := map[string]string{"A": "1", "B": "2", "C": "x"}

	s := diff.Summarize(diff.Compute(baseline, changes, live))
	c.Assert(s, qt.DeepEquals, diff.Summary{Tracked: 1, Untracked: 1, Unchanged: 1})
}

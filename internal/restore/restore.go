// Package restore computes and applies the minimal mutation plan that
// returns tracked variables to the session baseline. Planning is pure and
// execution is per-item best-effort, so the engine is testable without a
// terminal and a partial failure never aborts the remaining work.
package restore

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/session"
)

// Sentinel errors.
var (
	// ErrBaselineMissing means the session has no usable baseline.
	ErrBaselineMissing = errors.New("session baseline missing")
)

// Kind is the kind of restore action.
type Kind string

// Restore action kinds.
const (
	// Remove deletes a variable the tool added (absent from baseline).
	Remove Kind = "remove"
	// Restore sets a variable back to its baseline value.
	Restore Kind = "restore"
)

// Action is one planned mutation.
type Action struct {
	Name  string
	Kind  Kind
	Value string // restore target; empty for Remove
}

// Plan computes the baseline-restoring actions for every tracked variable.
// Untracked and original variables are never touched. The plan always
// targets the baseline, never a record's previous value: a drifted value or
// the tool's own intermediate writes are irrelevant once clear runs. A name
// in the baseline is restored to its baseline value regardless of how it
// was last touched; a name absent from the baseline is removed if the tool
// last set it, and needs no action if the tool last unset it (it is already
// in its baseline state and clear only truncates its records).
func Plan(sess *session.Session) ([]Action, error) {
	if sess.Baseline == nil {
		return nil, ErrBaselineMissing
	}

	var plan []Action
	for _, name := range sess.TrackedNames() {
		if base, ok := sess.Baseline[name]; ok {
			plan = append(plan, Action{Name: name, Kind: Restore, Value: base})
			continue
		}
		if sess.Latest(name).Op == session.OpSet {
			plan = append(plan, Action{Name: name, Kind: Remove})
		}
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].Name < plan[j].Name })
	return plan, nil
}

// ActionError pairs a failed action with its cause.
type ActionError struct {
	Action Action
	Err    error
}

// Result reports what Execute accomplished.
type Result struct {
	Removed  int
	Restored int
	Failed   []ActionError
}

// PartialError aggregates per-item failures from a clear. The resolved
// items' work is kept; the unresolved variables stay tracked so a retry is
// idempotent.
type PartialError struct {
	Failed []ActionError
}

func (e *PartialError) Error() string {
	names := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		names[i] = f.Action.Name
	}
	return fmt.Sprintf("clear left %d variable(s) unresolved: %s", len(e.Failed), strings.Join(names, ", "))
}

// Execute applies each planned action independently against env. A failed
// mutation (e.g. a readonly target) is collected, not raised, and the
// remaining actions still run.
func Execute(plan []Action, env envio.Accessor) Result {
	var res Result
	for _, a := range plan {
		var err error
		switch a.Kind {
		case Remove:
			err = env.Unset(a.Name)
		case Restore:
			err = env.Set(a.Name, a.Value)
		}
		if err != nil {
			res.Failed = append(res.Failed, ActionError{Action: a, Err: fmt.Errorf("%s %s: %w", a.Kind, a.Name, err)})
			continue
		}
		if a.Kind == Remove {
			res.Removed++
		} else {
			res.Restored++
		}
	}
	return res
}

// Commit truncates the resolved entries out of the session's change log.
// Records for failed variables remain so they stay tracked. When the log
// empties, the auto-snapshots are dropped with it; the baseline and
// session identity always persist.
func Commit(sess *session.Session, res Result) {
	failed := make(map[string]bool, len(res.Failed))
	for _, f := range res.Failed {
		failed[f.Action.Name] = true
	}
	kept := sess.Changes[:0]
	for _, rec := range sess.Changes {
		if failed[rec.Name] {
			kept = append(kept, rec)
		}
	}
	sess.Changes = kept
	if len(sess.Changes) == 0 {
		sess.Snapshots = nil
	}
}

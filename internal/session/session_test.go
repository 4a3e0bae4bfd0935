package session_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/asward/envision/internal/session"
)

func testEnv() map[string]string {
	return map[string]string{
		"FOO":  "bar",
		"PATH": "/usr/bin",
	}
}

func TestNew_HappyPath(t *testing.T) {
	c := qt.New(t)

	sess := session.New(1234, testEnv())
	c.Assert(sess.Baseline, qt.HasLen, 2)
	c.Assert(sess.Baseline["FOO"], qt.Equals, "bar")
	c.Assert(sess.Changes, qt.HasLen, 0)
	c.Assert(sess.Pid, qt.Equals, 1234)
	c.Assert(sess.CreatedAt.IsZero(), qt.IsFalse)
}

func TestNew_ExcludesManagedVars(t *testing.T) {
	c := qt.New(t)

	env := testEnv()
	env[session.SessionIDVar] = "abc"
	env[session.ProfileVar] = "dev"
	sess := session.New(1, env)
	c.Assert(sess.Baseline, qt.HasLen, 2)
	_, ok := sess.Baseline[session.SessionIDVar]
	c.Assert(ok, qt.IsFalse)
}

func TestNew_IDIsShortHex(t *testing.T) {
	c := qt.New(t)

	a := session.New(1234, nil)
	b := session.New(1235, nil)
	c.Assert(a.ID, qt.HasLen, 8)
	c.Assert(strings.Trim(a.ID, "0123456789abcdef"), qt.Equals, "")
	c.Assert(a.ID, qt.Not(qt.Equals), b.ID)
}

func TestValidateName(t *testing.T) {
	c := qt.New(t)

	c.Run("valid", func(c *qt.C) {
		for _, name := range []string{"FOO", "_BAR", "a1_2", "_"} {
			c.Assert(session.ValidateName(name), qt.IsNil, qt.Commentf("name %q", name))
		}
	})

	c.Run("invalid", func(c *qt.C) {
		for _, name := range []string{"", "1FOO", "FOO-BAR", "FOO.BAR", "FOO BAR", "F\x00O"} {
			err := session.ValidateName(name)
			c.Assert(err, qt.ErrorIs, session.ErrInvalidName, qt.Commentf("name %q", name))
		}
	})
}

func TestIsCritical(t *testing.T) {
	c := qt.New(t)
	c.Assert(session.IsCritical("PATH"), qt.IsTrue)
	c.Assert(session.IsCritical("HOME"), qt.IsTrue)
	c.Assert(session.IsCritical("MY_CUSTOM_VAR"), qt.IsFalse)
}

func TestLatest_ReturnsMostRecentRecord(t *testing.T) {
	c := qt.New(t)

	sess := session.New(1, nil)
	tr := session.NewTracker(sess, 0)
	tr.TrackSet("FOO", "first", nil, session.SourceManual)
	live := "first"
	tr.TrackSet("FOO", "second", &live, session.SourceManual)

	latest := sess.Latest("FOO")
	c.Assert(latest, qt.IsNotNil)
	c.Assert(*latest.New, qt.Equals, "second")
	c.Assert(sess.Latest("MISSING"), qt.IsNil)
}

func TestTrackedNames_DistinctFirstSeenOrder(t *testing.T) {
	c := qt.New(t)

	sess := session.New(1, nil)
	tr := session.NewTracker(sess, 0)
	tr.TrackSet("B", "1", nil, session.SourceManual)
	tr.TrackSet("A", "1", nil, session.SourceManual)
	one := "1"
	tr.TrackSet("B", "2", &one, session.SourceManual)

	c.Assert(sess.TrackedNames(), qt.DeepEquals, []string{"B", "A"})
}

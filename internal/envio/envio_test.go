package envio_test

import (
	"bytes"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/asward/envision/internal/envio"
)

func TestShell_SnapshotsProcessEnv(t *testing.T) {
	c := qt.New(t)
	t.Setenv("ENVIO_TEST_VAR", "from-process")

	sh := envio.NewShell()
	v, ok := sh.Get("ENVIO_TEST_VAR")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "from-process")
}

func TestShell_SetQueuesExportAndUpdatesView(t *testing.T) {
	c := qt.New(t)

	sh := envio.NewShell()
	c.Assert(sh.Set("FOO", "bar"), qt.IsNil)

	v, ok := sh.Get("FOO")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "bar")
	c.Assert(sh.Statements(), qt.DeepEquals, []string{"export FOO='bar'"})

	// The process env itself is untouched; mutations reach the parent
	// shell only through the eval hook.
	c.Assert(os.Getenv("FOO"), qt.Equals, "")
}

func TestShell_QuotingEscapesSingleQuotes(t *testing.T) {
	c := qt.New(t)

	sh := envio.NewShell()
	c.Assert(sh.Set("Q", "it's a 'test'"), qt.IsNil)
	c.Assert(sh.Statements()[0], qt.Equals, `export Q='it'\''s a '\''test'\'''`)
}

func TestShell_UnsetQueuesStatement(t *testing.T) {
	c := qt.New(t)
	t.Setenv("DOOMED", "x")

	sh := envio.NewShell()
	c.Assert(sh.Unset("DOOMED"), qt.IsNil)
	_, ok := sh.Get("DOOMED")
	c.Assert(ok, qt.IsFalse)
	c.Assert(sh.Statements(), qt.DeepEquals, []string{"unset DOOMED"})
}

func TestShell_FlushWritesOnePerLine(t *testing.T) {
	c := qt.New(t)

	sh := envio.NewShell()
	c.Assert(sh.Set("A", "1"), qt.IsNil)
	c.Assert(sh.Unset("B"), qt.IsNil)

	var buf bytes.Buffer
	sh.Flush(&buf)
	c.Assert(buf.String(), qt.Equals, "export A='1'\nunset B\n")
}

func TestShell_ListReturnsCopy(t *testing.T) {
	c := qt.New(t)

	sh := envio.NewShell()
	c.Assert(sh.Set("COPY_TEST", "1"), qt.IsNil)
	list := sh.List()
	list["COPY_TEST"] = "mutated"

	v, _ := sh.Get("COPY_TEST")
	c.Assert(v, qt.Equals, "1")
}

// Package statuscmd implements `envision status`: a summary of how the
// live environment diverges from the session baseline. Exits 0 when clean,
// 1 when untracked changes exist.
package statuscmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/diff"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status",
		Short: "Show session state (exits 0 if clean, 1 if dirty)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(*cobra.Command, []string) error {
	out := c.ctx.Renderer()
	st, err := c.ctx.Store()
	if err != nil {
		return err
	}

	sess, err := st.Load(c.ctx.Scope())
	if errors.Is(err, store.ErrNotFound) {
		return shared.ErrNotInitialized
	}
	if errors.Is(err, store.ErrCorrupt) {
		// Status is read-only, so a corrupt record is a reportable state
		// rather than an abort; the error still drives the exit code.
		out.KeyValue("Storage", st.Path(c.ctx.Scope()))
		out.Error("State: corrupted (run 'envision init --force' to start over)")
		return err
	}
	if err != nil {
		return err
	}

	env := envio.NewShell()
	entries := diff.Compute(sess.Baseline, sess.Changes, env.List())
	summary := diff.Summarize(entries)

	out.KeyValue("Session", sess.ID)
	out.KeyValue("Baseline", sess.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if sess.Profile != "" {
		out.KeyValue("Profile", sess.Profile)
	}
	out.KeyValue("Tracked changes", fmt.Sprintf("%d", summary.Tracked))
	out.KeyValue("Untracked changes", fmt.Sprintf("%d", summary.Untracked))
	out.KeyValue("Total changed", fmt.Sprintf("%d", summary.Tracked+summary.Untracked))

	if summary.Untracked > 0 {
		out.Warn("State: dirty")
		return shared.ErrDirty
	}
	out.Success("State: clean")
	return nil
}

// Package unsetcmd implements `envision unset NAME`.
package unsetcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/session"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision unset`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the unset command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "unset NAME",
		Short: "Unset and track removal of an environment variable",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := c.ctx.Renderer()

	if err := session.ValidateName(name); err != nil {
		return err
	}
	if session.IsManaged(name) {
		return fmt.Errorf("%w: %s", session.ErrManagedName, name)
	}

	env := envio.NewShell()
	live, hasLive := env.Get(name)
	if !hasLive {
		// Non-fatal by policy: warn and succeed without a record.
		out.Warn(fmt.Sprintf("Variable '%s' is not set", name))
		return nil
	}
	if session.IsCritical(name) {
		out.Warn(fmt.Sprintf("'%s' is a system-critical variable", name))
	}

	st, err := c.ctx.Store()
	if err != nil {
		return err
	}
	sess, err := st.Load(c.ctx.Scope())
	switch {
	case errors.Is(err, store.ErrNotFound):
		sess = nil
	case err != nil:
		return err
	}

	if err := env.Unset(name); err != nil {
		return err
	}
	out.Success(fmt.Sprintf("Unset %s (was: %s)", name, live))

	if sess == nil {
		out.Warn("No active session; change is not tracked (run 'envision init')")
		env.Flush(cmd.OutOrStdout())
		return nil
	}

	tracker := session.NewTracker(sess, c.ctx.Config().Snapshots.Limit)
	res := tracker.TrackUnset(name, &live, session.SourceManual)
	if err := st.Save(sess); err != nil {
		return err
	}
	if !res.Missing {
		out.KeyValue("Was", string(res.Kind))
	}

	shared.UpdateBanner(env, sess)
	env.Flush(cmd.OutOrStdout())
	return nil
}

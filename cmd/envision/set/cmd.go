// Package setcmd implements `envision set NAME VALUE`.
package setcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/session"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision set`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the set command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Set and track an environment variable",
		Args:  cobra.ExactArgs(2),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	name, value := args[0], args[1]
	out := c.ctx.Renderer()

	// Validation comes before any mutation.
	if err := session.ValidateName(name); err != nil {
		return err
	}
	if session.IsManaged(name) {
		return fmt.Errorf("%w: %s", session.ErrManagedName, name)
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
		// Tracking data is unusable; refuse to mutate on top of it.
		return err
	}

	env := envio.NewShell()
	live, hasLive := env.Get(name)
	if err := env.Set(name, value); err != nil {
		return err
	}
	out.Success(fmt.Sprintf("Set %s=%s", name, value))

	if sess == nil {
		out.Warn("No active session; change is not tracked (run 'envision init')")
		env.Flush(cmd.OutOrStdout())
		return nil
	}

	var livePtr *string
	if hasLive {
		livePtr = &live
	}
	tracker := session.NewTracker(sess, c.ctx.Config().Snapshots.Limit)
	res := tracker.TrackSet(name, value, livePtr, session.SourceManual)
	if err := st.Save(sess); err != nil {
		return err
	}

	if res.AlreadySet {
		out.Info("Value already set; tracked without snapshot")
	}
	if res.Previous != nil {
		suffix := ""
		switch res.Overwrote {
		case session.OverwroteTracked:
			suffix = " (was tracked)"
		case session.OverwroteUntracked:
			suffix = " (was untracked)"
		}
		out.KeyValue("Previous", *res.Previous+suffix)
	}

	shared.UpdateBanner(env, sess)
	env.Flush(cmd.OutOrStdout())
	return nil
}

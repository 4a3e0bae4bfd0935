// Package initcmd implements `envision init`: capture the baseline
// snapshot and start a tracking session for this shell.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/session"
)

// Command implements `envision init`.
type Command struct {
	ctx    *shared.Context
	cmd    *cobra.Command
	force  bool
	resume bool
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Capture the current environment as a session baseline",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.force, "force", false, "Reinitialize even if a session exists (loses tracking history)")
	c.cmd.Flags().BoolVar(&c.resume, "resume", false, "Resume the existing session instead of creating a new one")
	c.cmd.MarkFlagsMutuallyExclusive("force", "resume")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	out := c.ctx.Renderer()
	st, err := c.ctx.Store()
	if err != nil {
		return err
	}
	scope := c.ctx.Scope()
	exists := st.Exists(scope)

	if c.resume {
		sess, err := st.Load(scope)
		if err != nil {
			return fmt.Errorf("no existing session to resume: %w", err)
		}
		out.Success("Session resumed")
		out.KeyValue("Session", sess.ID)
		out.KeyValue("Tracked changes", fmt.Sprintf("%d", len(sess.TrackedNames())))
		return nil
	}

	if exists && !c.force {
		return shared.ErrAlreadyInitialized
	}
	if exists && c.force {
		out.Warn("Reinitializing session (previous tracking history will be lost)")
		if err := st.Remove(scope); err != nil {
			return err
		}
	}

	// Session files from dead shells serve nothing; sweep them here since
	// init is the one command that always runs at session start.
	if stale, err := st.Stale(); err == nil && len(stale) > 0 {
		out.Warn(fmt.Sprintf("Found %d stale session(s) from previous shells (cleaning up)", len(stale)))
		for _, s := range stale {
			_ = st.Remove(s)
		}
	}

	env := envio.NewShell()
	sess := session.New(int(scope), env.List())
	if err := st.Save(sess); err != nil {
		return err
	}

	out.Success("Session initialized")
	out.KeyValue("Session", sess.ID)
	out.KeyValue("Variables captured", fmt.Sprintf("%d", len(sess.Baseline)))
	out.KeyValue("Storage", st.Path(scope))

	shared.UpdateBanner(env, sess)
	env.Flush(cmd.OutOrStdout())
	return nil
}

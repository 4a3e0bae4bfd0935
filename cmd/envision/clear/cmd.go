// Package clearcmd implements `envision clear`: restore tracked variables
// to the session baseline.
package clearcmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/render"
	"github.com/asward/envision/internal/restore"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision clear`.
type Command struct {
	ctx   *shared.Context
	cmd   *cobra.Command
	force bool
}

// New creates the clear command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all tracked changes, restoring the baseline",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.force, "force", false, "Skip confirmation prompt")
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

	sess, err := st.Load(c.ctx.Scope())
	if errors.Is(err, store.ErrNotFound) {
		return shared.ErrNotInitialized
	}
	if err != nil {
		// Clear is destructive; a corrupt record blocks it.
		return err
	}

	plan, err := restore.Plan(sess)
	if err != nil {
		return err
	}
	if len(plan) == 0 && len(sess.Changes) == 0 {
		out.Success("Nothing to clear")
		return nil
	}

	// An empty plan over a non-empty log means every tracked variable is
	// already in its baseline state; only the records need truncating, so
	// there is nothing to preview or confirm.
	if len(plan) > 0 {
		out.Info(fmt.Sprintf("%d tracked change(s) to clear:", len(plan)))
		for _, a := range plan {
			switch a.Kind {
			case restore.Remove:
				out.Info(fmt.Sprintf("  unset %s", a.Name))
			case restore.Restore:
				out.Info(fmt.Sprintf("  restore %s=%s", a.Name, render.DisplayValue(a.Value)))
			}
		}

		if !c.force {
			ok, err := render.Confirm(os.Stdin, "Clear all tracked changes?", "--force")
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("clear cancelled")
			}
		}
	}

	env := envio.NewShell()
	res := restore.Execute(plan, env)
	restore.Commit(sess, res)
	if err := st.Save(sess); err != nil {
		return err
	}

	if res.Removed > 0 {
		out.KeyValue("Removed", fmt.Sprintf("%d", res.Removed))
	}
	if res.Restored > 0 {
		out.KeyValue("Restored", fmt.Sprintf("%d", res.Restored))
	}

	shared.UpdateBanner(env, sess)
	env.Flush(cmd.OutOrStdout())

	if len(res.Failed) > 0 {
		for _, f := range res.Failed {
			out.Warn(fmt.Sprintf("could not %s %s: %v", f.Action.Kind, f.Action.Name, f.Err))
		}
		return &restore.PartialError{Failed: res.Failed}
	}
	out.Success("State: clean")
	return nil
}

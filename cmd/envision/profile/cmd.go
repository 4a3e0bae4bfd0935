// Package profilecmd implements `envision profile PATH`: load a variable
// bundle from a profile script and fold it into tracked state.
package profilecmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/config"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/profile"
	"github.com/asward/envision/internal/render"
	"github.com/asward/envision/internal/script"
	"github.com/asward/envision/internal/session"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision profile`.
type Command struct {
	ctx    *shared.Context
	cmd    *cobra.Command
	yes    bool
	dryRun bool
}

// New creates the profile command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "profile PATH",
		Short: "Load environment variables from a profile script",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.yes, "yes", false, "Skip confirmation prompt")
	c.cmd.Flags().BoolVar(&c.dryRun, "dry-run", false, "Show what would change without applying")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	out := c.ctx.Renderer()
	cfg := c.ctx.Config()

	meta, err := profile.Inspect(args[0])
	if err != nil {
		return err
	}

	st, err := c.ctx.Store()
	if err != nil {
		return err
	}
	scope := c.ctx.Scope()
	env := envio.NewShell()

	sess, err := st.Load(scope)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Profiles apply through the change tracker, so a session is
		// created on demand the way init would.
		sess = session.New(int(scope), env.List())
		if !c.dryRun {
			if err := st.Save(sess); err != nil {
				return err
			}
			out.Success("Session initialized")
			out.KeyValue("Session", sess.ID)
		}
	case err != nil:
		return err
	}

	// First-time loads always confirm; a checksum matching the last
	// recorded load may skip it depending on policy.
	needConfirm := !c.yes && !c.dryRun &&
		(cfg.Profile.Reconfirm == config.ReconfirmAlways || meta.Checksum != sess.ProfileChecksum)
	if needConfirm {
		ok, err := render.Confirm(os.Stdin, fmt.Sprintf("Load profile %s?", meta.Path), "--yes")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("profile loading cancelled")
		}
	}

	loader := &profile.Loader{Exec: script.Bash{}}
	changes, err := loader.Changes(cmd.Context(), meta, env.List())
	if err != nil {
		return err
	}

	if c.dryRun {
		out.Info(fmt.Sprintf("Dry run for profile '%s':", meta.Name))
		if len(changes) == 0 {
			out.Info("  (no changes)")
		}
		for _, ch := range changes {
			if ch.Value != nil {
				out.Info(fmt.Sprintf("  set %s=%s", ch.Name, render.DisplayValue(*ch.Value)))
			} else {
				out.Info(fmt.Sprintf("  unset %s", ch.Name))
			}
		}
		return nil
	}

	tracker := session.NewTracker(sess, cfg.Snapshots.Limit)
	applied, applyErr := profile.Apply(meta, changes, tracker, env)
	if err := st.Save(sess); err != nil {
		return err
	}

	out.Success(fmt.Sprintf("Profile '%s' loaded", meta.Name))
	out.KeyValue("Variables changed", fmt.Sprintf("%d", applied))

	shared.UpdateBanner(env, sess)
	env.Flush(cmd.OutOrStdout())
	return applyErr
}

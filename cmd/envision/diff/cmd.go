// Package diffcmd implements `envision diff`: the classified delta between
// the live environment and the session baseline.
package diffcmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/diff"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/render"
	"github.com/asward/envision/internal/store"
)

// Command implements `envision diff`.
type Command struct {
	ctx       *shared.Context
	cmd       *cobra.Command
	tracked   bool
	untracked bool
	pattern   string
	format    string
}

// New creates the diff command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "diff",
		Short: "Show classified changes against the session baseline",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.tracked, "tracked", false, "Show only tool-tracked changes")
	c.cmd.Flags().BoolVar(&c.untracked, "untracked", false, "Show only untracked (external) changes")
	c.cmd.Flags().StringVar(&c.pattern, "pattern", "", "Filter variable names by glob pattern")
	c.cmd.Flags().StringVar(&c.format, "format", render.FormatHuman, "Output format: human, json, or csv")
	c.cmd.MarkFlagsMutuallyExclusive("tracked", "untracked")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	st, err := c.ctx.Store()
	if err != nil {
		return err
	}
	sess, err := st.Load(c.ctx.Scope())
	if errors.Is(err, store.ErrNotFound) {
		return shared.ErrNotInitialized
	}
	if err != nil {
		return err
	}

	var filters []diff.Filter
	if c.tracked {
		filters = append(filters, diff.TrackedOnly)
	}
	if c.untracked {
		filters = append(filters, diff.UntrackedOnly)
	}
	if c.pattern != "" {
		filters = append(filters, diff.MatchPattern(c.pattern))
	}

	env := envio.NewShell()
	entries := diff.Compute(sess.Baseline, sess.Changes, env.List(), filters...)

	// diff never mutates, so the hook does not eval its output and stdout
	// is safe for machine formats.
	return render.Diff(cmd.OutOrStdout(), c.ctx.Renderer(), entries, c.format)
}

// Package hookcmd implements `envision hook SHELL`: print the shell
// integration script for the user's RC file.
package hookcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/hook"
)

// Command implements `envision hook`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the hook command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "hook SHELL",
		Short: "Print shell integration (add `eval \"$(envision hook bash)\"` to your RC file)",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	script, err := hook.Script(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}

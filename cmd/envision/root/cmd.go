// Package rootcmd wires the root cobra.Command for the envision binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	clearcmd "github.com/asward/envision/cmd/envision/clear"
	diffcmd "github.com/asward/envision/cmd/envision/diff"
	hookcmd "github.com/asward/envision/cmd/envision/hook"
	initcmd "github.com/asward/envision/cmd/envision/init"
	profilecmd "github.com/asward/envision/cmd/envision/profile"
	setcmd "github.com/asward/envision/cmd/envision/set"
	"github.com/asward/envision/cmd/envision/shared"
	statuscmd "github.com/asward/envision/cmd/envision/status"
	unsetcmd "github.com/asward/envision/cmd/envision/unset"
	"github.com/asward/envision/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the envision CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "envision",
		Short:         "Track and restore shell environment changes per session",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.DataDir, "data-dir", "",
		"Override session storage directory (default: $XDG_DATA_HOME/envision/sessions)",
	)
	root.PersistentFlags().BoolVar(&ctx.NoColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		statuscmd.New(ctx).Cmd(),
		setcmd.New(ctx).Cmd(),
		unsetcmd.New(ctx).Cmd(),
		diffcmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		profilecmd.New(ctx).Cmd(),
		hookcmd.New(ctx).Cmd(),
	)

	return root
}

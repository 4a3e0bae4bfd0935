package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	rootcmd "github.com/asward/envision/cmd/envision/root"
	"github.com/asward/envision/cmd/envision/shared"
	"github.com/asward/envision/internal/render"
	"github.com/asward/envision/internal/restore"
	"github.com/asward/envision/internal/script"
	"github.com/asward/envision/internal/store"
)

// Exit codes. Dirty status and general failures share code 1; the rest
// distinguish error categories for scripting.
const (
	exitOK           = 0
	exitGeneral      = 1
	exitPartialClear = 2
	exitCorrupt      = 3
	exitScript       = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := rootcmd.New().ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	// Dirty status is reported by the command itself; the marker only
	// carries the exit code.
	if errors.Is(err, shared.ErrDirty) {
		return exitGeneral
	}

	r := render.New(os.Stderr, render.ColorEnabled(os.Stderr, "auto"))
	r.Error("Error: " + err.Error())

	var partial *restore.PartialError
	var scriptErr *script.Error
	switch {
	case errors.As(err, &partial):
		return exitPartialClear
	case errors.Is(err, store.ErrCorrupt):
		return exitCorrupt
	case errors.As(err, &scriptErr):
		return exitScript
	default:
		return exitGeneral
	}
}

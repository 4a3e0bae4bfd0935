// Package shared holds the context passed to all CLI commands.
package shared

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/asward/envision/internal/config"
	"github.com/asward/envision/internal/diff"
	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/render"
	"github.com/asward/envision/internal/session"
	"github.com/asward/envision/internal/store"
)

// Session lifecycle sentinels.
var (
	// ErrNotInitialized means no session exists for this shell.
	ErrNotInitialized = errors.New("no active session (run 'envision init' first)")
	// ErrAlreadyInitialized means init was called over an existing session
	// without --force or --resume.
	ErrAlreadyInitialized = errors.New("session already exists (use --force to reinitialize or --resume to continue)")
	// ErrDirty marks a status invocation that found untracked changes.
	// It carries exit code 1 without printing an extra error line.
	ErrDirty = errors.New("environment is dirty")
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// DataDir overrides the session storage directory.
	// When empty, resolution falls through to $XDG_DATA_HOME → ~/.local/share.
	DataDir string
	// NoColor disables styled output.
	NoColor bool
}

// Store opens the session store for this invocation.
func (c *Context) Store() (*store.Store, error) {
	dir := c.DataDir
	if dir == "" {
		var err error
		dir, err = store.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return store.New(dir), nil
}

// Scope returns this invocation's session scope: the parent shell's pid,
// since the envision binary runs as its child.
func (c *Context) Scope() store.Scope {
	return store.Scope(os.Getppid())
}

// Config loads the user configuration, falling back to defaults on error.
func (c *Context) Config() *config.Config {
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Warn("failed to load config, using defaults", "path", config.Path(), "err", err)
		return config.Default()
	}
	return cfg
}

// Renderer returns the stderr renderer for human-facing messages.
// stdout is reserved for evaluable shell statements.
func (c *Context) Renderer() *render.Renderer {
	color := !c.NoColor && render.ColorEnabled(os.Stderr, c.Config().Color)
	return render.New(os.Stderr, color)
}

// UpdateBanner refreshes the envision-managed state variables the shell
// hook's prompt banner reads. Mutating commands call this before flushing;
// failures are ignored because banner state is cosmetic.
func UpdateBanner(env envio.Accessor, sess *session.Session) {
	entries := diff.Compute(sess.Baseline, sess.Changes, env.List())
	summary := diff.Summarize(entries)

	_ = env.Set(session.SessionIDVar, sess.ID)
	_ = env.Set(session.TrackedVar, strconv.Itoa(summary.Tracked))
	dirty := "0"
	if summary.Untracked > 0 {
		dirty = "1"
	}
	_ = env.Set(session.DirtyVar, dirty)
	if sess.Profile != "" {
		_ = env.Set(session.ProfileVar, sess.Profile)
		_ = env.Set(session.ProfileChecksumVar, sess.ProfileChecksum)
	}
}

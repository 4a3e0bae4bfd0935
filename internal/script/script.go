// Package script runs profile content in an isolated shell and captures
// the resulting environment. The core never parses shell syntax itself;
// this is the Script Executor collaborator behind the profile loader.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error carries a profile script's own failure verbatim: its exit code and
// stderr are never masked by the loader.
type Error struct {
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("profile script failed (exit %d): %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Executor turns profile content into the environment it produces.
type Executor interface {
	Execute(ctx context.Context, path string) (map[string]string, error)
}

// Bash sources the profile in a clean bash subshell (--norc --noprofile so
// shell config cannot pollute the diff) and dumps the resulting
// environment NUL-separated. Script stdout is redirected to stderr so only
// the env dump reaches stdout.
type Bash struct{}

// Execute runs the profile at path and returns the resulting assignments.
func (Bash) Execute(ctx context.Context, path string) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, "bash", "--norc", "--noprofile", "-c", `. "$1" 1>&2 && env -0`, "_", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("script.Execute: %w", err)
	}

	env := make(map[string]string)
	for _, entry := range strings.Split(stdout.String(), "\x00") {
		if entry == "" {
			continue
		}
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

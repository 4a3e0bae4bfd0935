// Package envio defines the environment accessor capability. The live
// process environment is ambient state; every operation receives an
// Accessor explicitly so the core stays testable against an in-memory
// fake (see internal/testutil).
package envio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrReadonly is returned when a mutation targets a readonly variable.
var ErrReadonly = errors.New("variable is readonly")

// Accessor is the capability over a live environment: list all pairs,
// read, mutate, and report readonly status. Mutations are failable.
type Accessor interface {
	List() map[string]string
	Get(name string) (string, bool)
	Set(name, value string) error
	Unset(name string) error
	Readonly(name string) bool
}

// Shell is the production Accessor. It snapshots the invoking process
// environment and queues evaluable shell statements for every mutation;
// the eval hook applies them to the parent shell. stdout is reserved for
// these statements.
type Shell struct {
	env        map[string]string
	statements []string
}

// NewShell snapshots os.Environ into a Shell accessor.
func NewShell() *Shell {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return &Shell{env: env}
}

// List returns a copy of the current environment view.
func (s *Shell) List() map[string]string {
	out := make(map[string]string, len(s.env))
	for k, v := range s.env {
		out[k] = v
	}
	return out
}

// Get returns the current value of name.
func (s *Shell) Get(name string) (string, bool) {
	v, ok := s.env[name]
	return v, ok
}

// Set queues an export statement and updates the view.
func (s *Shell) Set(name, value string) error {
	s.env[name] = value
	s.statements = append(s.statements, fmt.Sprintf("export %s=%s", name, quote(value)))
	return nil
}

// Unset queues an unset statement and updates the view.
func (s *Shell) Unset(name string) error {
	delete(s.env, name)
	s.statements = append(s.statements, "unset "+name)
	return nil
}

// Readonly always reports false: the shell does not expose readonly status
// to child processes, and a readonly target surfaces as an eval-time error
// in the shell itself.
func (s *Shell) Readonly(string) bool { return false }

// Statements returns the queued shell statements.
func (s *Shell) Statements() []string { return s.statements }

// Flush writes all queued statements to w, one per line.
func (s *Shell) Flush(w io.Writer) {
	for _, stmt := range s.statements {
		fmt.Fprintln(w, stmt)
	}
}

// quote single-quotes a value for sh, escaping embedded single quotes.
func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

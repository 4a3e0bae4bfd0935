// Package testutil provides fakes shared across package tests.
package testutil

import (
	"fmt"

	"github.com/asward/envision/internal/envio"
)

// FakeEnv is an in-memory envio.Accessor. Names added to ReadOnly reject
// mutations with envio.ErrReadonly, which is how tests exercise partial
// clear failures.
type FakeEnv struct {
	Vars     map[string]string
	ReadOnly map[string]bool

	// Sets and Unsets record applied mutations in order.
	Sets   []string
	Unsets []string
}

// NewFakeEnv returns a FakeEnv seeded with vars (may be nil).
func NewFakeEnv(vars map[string]string) *FakeEnv {
	env := &FakeEnv{Vars: make(map[string]string), ReadOnly: make(map[string]bool)}
	for k, v := range vars {
		env.Vars[k] = v
	}
	return env
}

// List returns a copy of the environment.
func (f *FakeEnv) List() map[string]string {
	out := make(map[string]string, len(f.Vars))
	for k, v := range f.Vars {
		out[k] = v
	}
	return out
}

// Get returns the value of name.
func (f *FakeEnv) Get(name string) (string, bool) {
	v, ok := f.Vars[name]
	return v, ok
}

// Set writes name unless it is readonly.
func (f *FakeEnv) Set(name, value string) error {
	if f.ReadOnly[name] {
		return fmt.Errorf("%w: %s", envio.ErrReadonly, name)
	}
	f.Vars[name] = value
	f.Sets = append(f.Sets, name+"="+value)
	return nil
}

// Unset removes name unless it is readonly.
func (f *FakeEnv) Unset(name string) error {
	if f.ReadOnly[name] {
		return fmt.Errorf("%w: %s", envio.ErrReadonly, name)
	}
	delete(f.Vars, name)
	f.Unsets = append(f.Unsets, name)
	return nil
}

// Readonly reports the readonly flag for name.
func (f *FakeEnv) Readonly(name string) bool { return f.ReadOnly[name] }

// Live returns a pointer to the current value of name, nil if absent.
func (f *FakeEnv) Live(name string) *string {
	if v, ok := f.Vars[name]; ok {
		return &v
	}
	return nil
}

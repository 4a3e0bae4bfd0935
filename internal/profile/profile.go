// Package profile validates, names, checksums, and applies external
// variable bundles through the same change-tracking primitives as direct
// set/unset commands.
package profile

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asward/envision/internal/envio"
	"github.com/asward/envision/internal/script"
	"github.com/asward/envision/internal/session"
)

// Recognized profile extensions.
var extensions = []string{".profile.sh", ".envision"}

// Sentinel errors, surfaced before any mutation.
var (
	// ErrNotFound means the profile path does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidExtension means the file is not a recognized profile.
	ErrInvalidExtension = errors.New("invalid profile extension")
)

// Variables that inherently differ in a subshell; never real changes.
var subshellNoise = map[string]bool{
	"_": true, "SHLVL": true, "BASH_EXECUTION_STRING": true,
}

// Meta describes a profile file before execution.
type Meta struct {
	Path     string // resolved absolute path
	Name     string // declared name (header marker or filename)
	Checksum string // sha-256 hex over raw bytes
}

// Inspect resolves path (relative against the working directory), checks
// existence and extension, and derives the profile's name and checksum.
// All validation failures surface here, before anything runs.
func Inspect(path string) (*Meta, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("profile.Inspect: %w", err)
		}
		abs = filepath.Join(cwd, abs)
	}

	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	base, ok := trimExtension(filepath.Base(abs))
	if !ok {
		return nil, fmt.Errorf("%w: %s (must be one of %s)", ErrInvalidExtension, abs, strings.Join(extensions, ", "))
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("profile.Inspect: read %s: %w", abs, err)
	}

	name := headerName(content)
	if name == "" {
		name = base
	}
	sum := sha256.Sum256(content)
	return &Meta{Path: abs, Name: name, Checksum: hex.EncodeToString(sum[:])}, nil
}

// trimExtension strips a recognized extension, reporting whether one matched.
func trimExtension(filename string) (string, bool) {
	for _, ext := range extensions {
		if stem, ok := strings.CutSuffix(filename, ext); ok && stem != "" {
			return stem, true
		}
	}
	return "", false
}

// headerName scans leading comment lines for a "# name: <value>" marker.
func headerName(content []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return ""
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if v, ok := strings.CutPrefix(rest, "name:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Change is one assignment a profile produces relative to the environment
// it ran against. A nil Value means the profile removed the variable.
type Change struct {
	Name  string
	Value *string
}

// Loader executes profiles and folds their changes into tracked state.
type Loader struct {
	Exec script.Executor
}

// Changes runs the profile and diffs the resulting environment against
// before, skipping subshell noise and envision-managed variables. A script
// failure propagates verbatim. Nothing is mutated: dry-run returns exactly
// this set.
func (l *Loader) Changes(ctx context.Context, meta *Meta, before map[string]string) ([]Change, error) {
	after, err := l.Exec.Execute(ctx, meta.Path)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for name, newVal := range after {
		if skip(name) {
			continue
		}
		if old, ok := before[name]; ok && old == newVal {
			continue
		}
		v := newVal
		changes = append(changes, Change{Name: name, Value: &v})
	}
	for name := range before {
		if skip(name) {
			continue
		}
		if _, ok := after[name]; !ok {
			changes = append(changes, Change{Name: name})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes, nil
}

func skip(name string) bool {
	return subshellNoise[name] || session.IsManaged(name)
}

// Apply routes every change through the tracker and environment accessor,
// tagging records with source "profile:<name>", then records the profile
// name and checksum on the session. Per-item environment failures are
// collected and the remaining changes still apply. Returns the number of
// changes applied.
func Apply(meta *Meta, changes []Change, tr *session.Tracker, env envio.Accessor) (int, error) {
	source := "profile:" + meta.Name
	applied := 0
	var failures []error
	for _, ch := range changes {
		live := liveValue(env, ch.Name)
		if ch.Value != nil {
			if err := env.Set(ch.Name, *ch.Value); err != nil {
				failures = append(failures, fmt.Errorf("set %s: %w", ch.Name, err))
				continue
			}
			tr.TrackSet(ch.Name, *ch.Value, live, source)
		} else {
			if live == nil {
				continue
			}
			if err := env.Unset(ch.Name); err != nil {
				failures = append(failures, fmt.Errorf("unset %s: %w", ch.Name, err))
				continue
			}
			tr.TrackUnset(ch.Name, live, source)
		}
		applied++
	}

	tr.Session.Profile = meta.Name
	tr.Session.ProfileChecksum = meta.Checksum
	return applied, errors.Join(failures...)
}

func liveValue(env envio.Accessor, name string) *string {
	if v, ok := env.Get(name); ok {
		return &v
	}
	return nil
}

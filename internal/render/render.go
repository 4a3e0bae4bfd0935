// Package render turns structured results into terminal output. All
// human-facing text goes to stderr; stdout belongs to the eval hook. The
// core engines hand over byte-exact values and this layer decides
// truncation, escaping, and color.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Renderer writes styled messages to a single destination.
type Renderer struct {
	w     io.Writer
	color bool
}

// New returns a Renderer writing to w.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// ColorEnabled decides whether to color output on f, honoring NO_COLOR,
// the user's config, and whether f is a terminal.
func ColorEnabled(f *os.File, configured string) bool {
	if configured == "never" {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (r *Renderer) styled(style lipgloss.Style, msg string) string {
	if !r.color {
		return msg
	}
	return style.Render(msg)
}

// Success prints a green confirmation line.
func (r *Renderer) Success(msg string) { fmt.Fprintln(r.w, r.styled(successStyle, msg)) }

// Info prints a plain line.
func (r *Renderer) Info(msg string) { fmt.Fprintln(r.w, msg) }

// Warn prints a yellow warning line. Warnings are non-fatal and never flip
// the exit code on their own.
func (r *Renderer) Warn(msg string) { fmt.Fprintln(r.w, r.styled(warnStyle, msg)) }

// Error prints a red error line.
func (r *Renderer) Error(msg string) { fmt.Fprintln(r.w, r.styled(errorStyle, msg)) }

// KeyValue prints an indented "key: value" detail line.
func (r *Renderer) KeyValue(key, value string) {
	fmt.Fprintf(r.w, "  %s: %s\n", r.styled(boldStyle, key), value)
}

// Dim returns msg in faint styling.
func (r *Renderer) Dim(msg string) string { return r.styled(dimStyle, msg) }

// maxValueWidth bounds displayed values; full bytes stay in the data.
const maxValueWidth = 64

// DisplayValue makes a raw environment value printable: non-printable
// bytes are escaped and long values truncated with an ellipsis.
func DisplayValue(v string) string {
	for _, r := range v {
		if !unicode.IsPrint(r) {
			v = strconv.Quote(v)
			break
		}
	}
	if len(v) > maxValueWidth {
		cut := maxValueWidth
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut] + "…"
	}
	return v
}

// Confirm prompts on stderr and reads a y/N answer from in. It fails when
// in is not a terminal, so scripted invocations must pass the explicit
// skip flag instead of hanging.
func Confirm(in *os.File, prompt, skipFlag string) (bool, error) {
	if !isatty.IsTerminal(in.Fd()) {
		return false, fmt.Errorf("cannot prompt for confirmation: not a terminal (use %s to skip)", skipFlag)
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/asward/envision/internal/diff"
)

// Diff output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Diff writes entries to w in the requested format. Original entries are
// shown only in the machine formats; the human view is a delta.
func Diff(w io.Writer, r *Renderer, entries []diff.Entry, format string) error {
	switch format {
	case FormatJSON:
		return diffJSON(w, entries)
	case FormatCSV:
		return diffCSV(w, entries)
	case FormatHuman:
		diffHuman(w, r, entries)
		return nil
	default:
		return fmt.Errorf("unknown diff format %q", format)
	}
}

func diffHuman(w io.Writer, r *Renderer, entries []diff.Entry) {
	unchanged := 0
	for _, e := range entries {
		if e.Category == diff.Original {
			unchanged++
			continue
		}
		fmt.Fprintln(w, humanLine(r, e))
	}
	if unchanged > 0 {
		fmt.Fprintln(w, r.Dim(fmt.Sprintf("  %d unchanged", unchanged)))
	}
}

func humanLine(r *Renderer, e diff.Entry) string {
	tag := string(e.Category)
	switch {
	case e.New == nil && e.Old != nil:
		return fmt.Sprintf("- %s=%s (%s)", e.Name, DisplayValue(*e.Old), tag)
	case e.New == nil:
		return fmt.Sprintf("- %s (%s)", e.Name, tag)
	case e.Old == nil:
		return fmt.Sprintf("+ %s=%s (%s)", e.Name, DisplayValue(*e.New), tag)
	default:
		return fmt.Sprintf("~ %s=%s -> %s (%s)", e.Name, DisplayValue(*e.Old), DisplayValue(*e.New), tag)
	}
}

type diffRecord struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Old      *string `json:"old"`
	New      *string `json:"new"`
	Source   string  `json:"source,omitempty"`
}

func diffJSON(w io.Writer, entries []diff.Entry) error {
	records := make([]diffRecord, len(entries))
	for i, e := range entries {
		records[i] = diffRecord{
			Name:     e.Name,
			Category: string(e.Category),
			Old:      e.Old,
			New:      e.New,
			Source:   e.Source,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func diffCSV(w io.Writer, entries []diff.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "category", "old", "new", "source"}); err != nil {
		return err
	}
	for _, e := range entries {
		old, newV := "", ""
		if e.Old != nil {
			old = *e.Old
		}
		if e.New != nil {
			newV = *e.New
		}
		if err := cw.Write([]string{e.Name, string(e.Category), old, newV, e.Source}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/source"
)

// Formatter formats command results for output.
type Formatter interface {
	FormatValue(w io.Writer, key string, v tomato.Value) error
	FormatSources(w io.Writer, sources []source.Source) error
	FormatWrite(w io.Writer, path string) error
	FormatReload(w io.Writer, sources []source.Source) error
	FormatQuery(w io.Writer, results []any, raw bool) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

var (
	keyColor    = color.New(color.FgCyan)
	headerColor = color.New(color.Bold)
	errorColor  = color.New(color.FgRed)
)

// HumanFormatter outputs human-readable text. Colours follow
// color.NoColor unless NoColor is set.
type HumanFormatter struct {
	Quiet   bool
	NoColor bool
}

func (f *HumanFormatter) paint(c *color.Color, s string) string {
	if f.NoColor {
		return s
	}
	return c.Sprint(s)
}

// FormatValue prints a scalar as is. Tables and sequences are flattened to
// one "path = value" line per scalar, in document order.
func (f *HumanFormatter) FormatValue(w io.Writer, key string, v tomato.Value) error {
	if v.Kind() != tomato.KindTable && v.Kind() != tomato.KindSequence {
		_, _ = fmt.Fprintln(w, v.String())
		return nil
	}

	lines := flatten(key, v, nil)
	if len(lines) == 0 {
		_, _ = fmt.Fprintf(w, "%s is empty\n", key)
		return nil
	}
	for _, l := range lines {
		_, _ = fmt.Fprintf(w, "%s = %s\n", f.paint(keyColor, l.path), l.value)
	}
	return nil
}

type flatLine struct {
	path  string
	value string
}

func flatten(prefix string, v tomato.Value, out []flatLine) []flatLine {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	switch v.Kind() {
	case tomato.KindTable:
		t, _ := v.AsTable()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out = flatten(join(k), child, out)
		}
	case tomato.KindSequence:
		items, _ := v.AsSequence()
		for i, item := range items {
			out = flatten(join(strconv.Itoa(i)), item, out)
		}
	default:
		out = append(out, flatLine{path: prefix, value: v.String()})
	}
	return out
}

// FormatSources prints the loaded files as a table, lowest priority first.
func (f *HumanFormatter) FormatSources(w io.Writer, sources []source.Source) error {
	if len(sources) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration files found")
		return nil
	}

	_, _ = fmt.Fprintln(w, f.paint(headerColor, fmt.Sprintf("%8s  %-8s  %s", "PRIORITY", "ROLE", "PATH")))
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", 8), strings.Repeat("-", 8), strings.Repeat("-", 40))
	for _, s := range sources {
		_, _ = fmt.Fprintf(w, "%8d  %-8s  %s\n", s.Priority, s.Role, s.Path)
	}
	return nil
}

// FormatWrite reports a written file.
func (f *HumanFormatter) FormatWrite(w io.Writer, path string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Written: %s\n", path)
	}
	return nil
}

// FormatReload reports a reload.
func (f *HumanFormatter) FormatReload(w io.Writer, sources []source.Source) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Reloaded %d configuration file(s)\n", len(sources))
	}
	return nil
}

// FormatQuery prints each result as indented JSON. With raw, strings are
// printed without quotes and nulls are skipped.
func (f *HumanFormatter) FormatQuery(w io.Writer, results []any, raw bool) error {
	for _, v := range results {
		if raw {
			switch val := v.(type) {
			case string:
				_, _ = fmt.Fprintln(w, val)
				continue
			case nil:
				continue
			}
		}
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("jq: marshal error: %w", err)
		}
		_, _ = fmt.Fprintln(w, string(output))
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "%s %v\n", f.paint(errorColor, "Error:"), err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatValue formats a lookup result as JSON.
func (f *JSONFormatter) FormatValue(w io.Writer, key string, v tomato.Value) error {
	output := struct {
		Key   string `json:"key"`
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}{
		Key:   key,
		Kind:  v.Kind().String(),
		Value: v.Interface(),
	}
	return writeJSON(w, output)
}

// FormatSources formats the loaded files as JSON.
func (f *JSONFormatter) FormatSources(w io.Writer, sources []source.Source) error {
	output := struct {
		Sources []source.Source `json:"sources"`
	}{
		Sources: sources,
	}
	if output.Sources == nil {
		output.Sources = []source.Source{}
	}
	return writeJSON(w, output)
}

// FormatWrite formats a written file as JSON.
func (f *JSONFormatter) FormatWrite(w io.Writer, path string) error {
	output := struct {
		Written string `json:"written"`
	}{
		Written: path,
	}
	return writeJSON(w, output)
}

// FormatReload formats a reload as JSON.
func (f *JSONFormatter) FormatReload(w io.Writer, sources []source.Source) error {
	output := struct {
		Reloaded bool `json:"reloaded"`
		Files    int  `json:"files"`
	}{
		Reloaded: true,
		Files:    len(sources),
	}
	return writeJSON(w, output)
}

// FormatQuery formats all results as one JSON array.
func (f *JSONFormatter) FormatQuery(w io.Writer, results []any, _ bool) error {
	if results == nil {
		results = []any{}
	}
	return writeJSON(w, results)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package output renders convtest's console output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer prints human-readable output. Results go to stdout, diagnostics to
// stderr.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a Writer on the process streams, colored when stdout is a terminal.
func New() *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, isTerminal())
}

// NewWithWriters creates a Writer on the given streams.
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{out: out, err: err, color: color}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Quiet reports whether quiet mode is enabled.
func (w *Writer) Quiet() bool {
	return w.quiet
}

// Tone selects the color of a summary value.
type Tone int

const (
	Neutral Tone = iota
	Good
	Bad
)

// paint wraps s in the given ANSI codes when color is enabled.
func (w *Writer) paint(code, s string) string {
	if !w.color || code == "" {
		return s
	}
	return code + s + reset
}

func (w *Writer) line(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...any) {
	w.line(format, args...)
}

// Info writes a line to stdout unless quiet.
func (w *Writer) Info(format string, args ...any) {
	if !w.quiet {
		w.line(format, args...)
	}
}

// Hint writes a dimmed line to stdout unless quiet.
func (w *Writer) Hint(format string, args ...any) {
	if !w.quiet {
		w.line("%s", w.paint(dim, fmt.Sprintf(format, args...)))
	}
}

// Warning writes a warning to stderr.
func (w *Writer) Warning(format string, args ...any) {
	fmt.Fprintf(w.err, "%s %s\n", w.paint(yellow, "warning:"), fmt.Sprintf(format, args...))
}

// ErrorPrefix writes an error to stderr, prefixed with the program name.
func (w *Writer) ErrorPrefix(format string, args ...any) {
	fmt.Fprintf(w.err, "%s %s\n", w.paint(red, "convtest:"), fmt.Sprintf(format, args...))
}

// Section opens a group of related blocks, such as the pairs of one format.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.line("")
	w.line("%s", w.paint(bold, title))
}

// PairHeader prints the heading of a path pair block.
func (w *Writer) PairHeader(testPath, comparePath, comparator string) {
	if w.quiet {
		return
	}
	w.line("%s", w.paint(cyan, fmt.Sprintf("─── %s vs %s (%s) ───", testPath, comparePath, comparator)))
}

// Outcome prints one sample verdict with an optional detail for failures.
// Passing outcomes are suppressed in quiet mode.
func (w *Writer) Outcome(label string, passed bool, duration string, detail string) {
	if passed && w.quiet {
		return
	}
	mark, code := "x", red
	if passed {
		mark, code = "+", green
	}
	if w.color {
		mark = "✗"
		if passed {
			mark = "✓"
		}
	}
	w.line("    %s %s %s", w.paint(code, mark), label, w.paint(dim, duration))
	if !passed && detail != "" {
		w.line("      %s", w.paint(dim, detail))
	}
}

// List prints items as an indented bullet list unless quiet.
func (w *Writer) List(items []string) {
	if w.quiet {
		return
	}
	for _, item := range items {
		w.line("  - %s", item)
	}
}

// Table prints rows in left-aligned columns under a dashed header rule.
// Cells beyond the header count are dropped.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	render := func(cells []string) string {
		parts := make([]string, 0, len(widths))
		for i := 0; i < len(cells) && i < len(widths); i++ {
			parts = append(parts, fmt.Sprintf("%-*s", widths[i], cells[i]))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	w.line("%s", render(headers))
	w.line("%s", strings.Join(rule, "  "))
	for _, row := range rows {
		w.line("%s", render(row))
	}
}

// SummaryHeader opens the run summary.
func (w *Writer) SummaryHeader(title string) {
	w.line("")
	w.line("%s", w.paint(bold+cyan, "=== "+title+" ==="))
	w.line("")
}

// SummaryItem prints one labelled summary value.
func (w *Writer) SummaryItem(label, value string, tone Tone) {
	code := ""
	switch tone {
	case Good:
		code = green
	case Bad:
		code = red
	}
	w.line("  %s %s", w.paint(dim, label+":"), w.paint(code, value))
}

// Verdict prints the closing line of a run.
func (w *Writer) Verdict(passed bool, format string, args ...any) {
	code := red
	if passed {
		code = green
	}
	w.line("")
	w.line("%s", w.paint(code, fmt.Sprintf(format, args...)))
}

// Check prints a confirmation line, marked with a tick when colored.
func (w *Writer) Check(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		msg = w.paint(green, "✓") + " " + msg
	}
	w.line("%s", msg)
}

// isTerminal reports whether stdout is a character device.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

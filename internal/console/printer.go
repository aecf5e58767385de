// Package console renders publisher's user-facing narration.
//
// Colour is an explicit property of a Printer rather than a process-wide
// toggle, so the run loop decides once and hands the same Printer to every
// command's Describe.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes narration to an output stream and failures to an error
// stream.
type Printer struct {
	out   io.Writer
	err   io.Writer
	color bool
}

// New creates a Printer. Colour is applied only when useColor is true.
func New(out, errOut io.Writer, useColor bool) *Printer {
	return &Printer{out: out, err: errOut, color: useColor}
}

// Default returns a Printer on stdout/stderr that colours output when
// stdout is a terminal.
func Default() *Printer {
	return New(os.Stdout, os.Stderr, !color.NoColor)
}

// Out returns the narration stream.
func (p *Printer) Out() io.Writer { return p.out }

// ColorEnabled reports whether the Printer colours its output.
func (p *Printer) ColorEnabled() bool { return p.color }

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Cyan renders s in cyan.
func (p *Printer) Cyan(s string) string { return p.paint(color.FgCyan).Sprint(s) }

// Green renders s in green.
func (p *Printer) Green(s string) string { return p.paint(color.FgGreen).Sprint(s) }

// Yellow renders s in yellow.
func (p *Printer) Yellow(s string) string { return p.paint(color.FgYellow).Sprint(s) }

// Red renders s in red.
func (p *Printer) Red(s string) string { return p.paint(color.FgRed).Sprint(s) }

// Println writes a plain line to the narration stream.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text to the narration stream.
func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// Step prints a "> title" header line.
func (p *Printer) Step(title string) {
	p.Printf("> %s\n", title)
}

// Section prints a section header surrounded by blank lines.
func (p *Printer) Section(title string) {
	p.Println()
	_, _ = p.paint(color.FgBlue, color.Bold).Fprintf(p.out, "▸ %s\n", title)
	p.Println()
}

// Done prints the completion marker that follows each command.
func (p *Printer) Done() {
	p.Printf("%s\n\n", p.paint(color.FgGreen).Sprint("DONE"))
}

// Success prints a success message with a checkmark.
func (p *Printer) Success(msg string) {
	_, _ = p.paint(color.FgGreen, color.Bold).Fprintf(p.out, "✓ %s\n", msg)
}

// Warning prints a warning line in the "> message" style.
func (p *Printer) Warning(msg string) {
	p.Printf("> %s\n", p.Yellow(msg))
}

// Error prints an "ERR" line to the error stream.
func (p *Printer) Error(msg string) {
	_, _ = fmt.Fprintf(p.err, "> %s %s\n", p.paint(color.FgRed, color.Bold).Sprint("ERR"), msg)
}

// List prints items with bullet points.
func (p *Printer) List(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	c := p.paint(color.FgCyan)
	for _, item := range items {
		_, _ = c.Fprintf(p.out, "%s• %s\n", indentStr, item)
	}
}

// NumberedList prints a numbered list.
func (p *Printer) NumberedList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	c := p.paint(color.FgCyan)
	for i, item := range items {
		_, _ = c.Fprintf(p.out, "%s%d. %s\n", indentStr, i+1, item)
	}
}

// Count formats a count with the singular or plural noun.
func Count(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

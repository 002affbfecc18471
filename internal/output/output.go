// Package output provides context-aware output for orgit.
// Stdout is used for primary output (repository names, git output, summaries).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/orgit/internal/ui/styles"
)

type ctxKey struct{}

// Printer writes primary output to stdout. Styled messages are passed through
// a colorprofile writer so colors degrade for pipes, dumb terminals and NO_COLOR.
type Printer struct {
	w      io.Writer
	styled io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w, styled: colorprofile.NewWriter(w, os.Environ())}
}

// WithPrinter attaches a Printer for w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Plain writes msg unstyled on its own line.
func (p *Printer) Plain(msg string) {
	fmt.Fprintln(p.w, msg)
}

// Info writes an informational header.
func (p *Printer) Info(msg string) {
	p.render(styles.InfoStyle, msg)
}

// Success writes msg in the success color.
func (p *Printer) Success(msg string) {
	p.render(styles.SuccessStyle, msg)
}

// Error writes msg in the error color.
func (p *Printer) Error(msg string) {
	p.render(styles.ErrorStyle, msg)
}

// Notice writes a warning that does not stop the run.
func (p *Printer) Notice(msg string) {
	p.render(styles.WarningStyle, msg)
}

// Bold writes msg in bold.
func (p *Printer) Bold(msg string) {
	p.render(styles.Bold, msg)
}

// Render writes pre-styled text, such as a rendered table, as is.
// Colors are downsampled like the tagged helpers.
func (p *Printer) Render(text string) {
	fmt.Fprint(p.styled, text)
}

func (p *Printer) render(s lipgloss.Style, msg string) {
	fmt.Fprintln(p.styled, s.Render(msg))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

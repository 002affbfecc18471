// Package log provides context-aware diagnostic logging for orgit.
// Diagnostics go to stderr; primary output goes through the output package.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

type ctxKey struct{}

// Logger writes diagnostics, debug notices and verbose command echoes.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	debug   bool
}

// New creates a new logger. quiet suppresses everything, including verbose output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithDebug enables debug notices without enabling command echo.
func (l *Logger) WithDebug(debug bool) *Logger {
	l.debug = debug
	return l
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Debug writes msg followed by key=value pairs in verbose or debug mode.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l.quiet || !(l.verbose || l.debug) {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command echoes an external command in verbose mode and returns a callback
// that reports its duration once it has finished.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if dir != "" {
		fmt.Fprintf(l.out, "[%s] $ %s\n", dir, line)
	} else {
		fmt.Fprintf(l.out, "$ %s\n", line)
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "  (%s)\n", d.Round(time.Millisecond))
	}
}

// IsVerbose reports whether verbose output is enabled and not silenced by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

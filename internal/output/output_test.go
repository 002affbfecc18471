package output

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ctx := WithPrinter(context.Background(), &buf)
		p := FromContext(ctx)
		if p == nil {
			t.Fatal("FromContext returned nil")
		}
		if p.Writer() != &buf {
			t.Error("Writer() should return the buffer passed to WithPrinter")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p == nil {
			t.Fatal("FromContext returned nil on empty context")
		}
		if p.Writer() != os.Stdout {
			t.Error("Writer() should default to os.Stdout")
		}
	})
}

func TestPrinter_Print(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Print("hello", " ", "world")
	if got := buf.String(); got != "hello world" {
		t.Errorf("Print() wrote %q, want %q", got, "hello world")
	}
}

func TestPrinter_Printf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Printf("count: %d", 42)
	if got := buf.String(); got != "count: 42" {
		t.Errorf("Printf() wrote %q, want %q", got, "count: 42")
	}
}

func TestPrinter_Println(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Println("line one")
	p.Println("line two")
	want := "line one\nline two\n"
	if got := buf.String(); got != want {
		t.Errorf("Println() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Writer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithPrinter(context.Background(), &buf)
	p := FromContext(ctx)

	w := p.Writer()
	if w != &buf {
		t.Error("Writer() should return the underlying writer")
	}

	if _, err := w.Write([]byte("direct")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "direct" {
		t.Errorf("direct Write produced %q, want %q", got, "direct")
	}
}

func TestPrinter_TaggedMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(*Printer, string)
	}{
		{"plain", (*Printer).Plain},
		{"info", (*Printer).Info},
		{"success", (*Printer).Success},
		{"error", (*Printer).Error},
		{"notice", (*Printer).Notice},
		{"bold", (*Printer).Bold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.print(New(&buf), "Repository: imp")
			got := buf.String()
			// A buffer is not a terminal, so styling is stripped.
			if got != "Repository: imp\n" {
				t.Errorf("%s wrote %q, want %q", tt.name, got, "Repository: imp\n")
			}
			if strings.Contains(got, "\x1b[") {
				t.Errorf("%s wrote escape sequences to a non-terminal: %q", tt.name, got)
			}
		})
	}
}

func TestPrinter_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf).Render("\x1b[1mNAME\x1b[0m  KIND\n")

	if got := buf.String(); got != "NAME  KIND\n" {
		t.Errorf("Render() wrote %q, want %q", got, "NAME  KIND\n")
	}
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/raphi011/orgit/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestOutputContext(t *testing.T) {
	t.Parallel()

	out, err := OutputContext(logCtx(), "/tmp", "pwd")
	if err != nil {
		t.Fatalf("OutputContext(pwd) = %v, want nil", err)
	}
	if len(out) == 0 {
		t.Error("OutputContext(pwd) returned no output")
	}

	_, err = OutputContext(logCtx(), "", "sh", "-c", "echo 'error msg' >&2; exit 1")
	if err == nil || err.Error() != "error msg" {
		t.Errorf("OutputContext error = %v, want %q", err, "error msg")
	}
}

func TestOutputContext_Failures(t *testing.T) {
	t.Parallel()

	t.Run("exit without stderr keeps the exit error", func(t *testing.T) {
		t.Parallel()
		_, err := OutputContext(logCtx(), "", "sh", "-c", "exit 1")
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			t.Errorf("OutputContext error = %v, want exit status 1", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(logCtx())
		cancel()
		_, err := OutputContext(ctx, "", "sleep", "10")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("OutputContext error = %v, want context.Canceled", err)
		}
	})
}

func TestCombinedContext(t *testing.T) {
	t.Parallel()

	t.Run("interleaves stdout and stderr", func(t *testing.T) {
		t.Parallel()
		out, code, err := CombinedContext(logCtx(), "", "sh", "-c", "echo one; echo two >&2; echo three")
		if err != nil {
			t.Fatalf("CombinedContext() error = %v", err)
		}
		if code != 0 {
			t.Errorf("exit code = %d, want 0", code)
		}
		if got := string(out); got != "one\ntwo\nthree\n" {
			t.Errorf("output = %q, want %q", got, "one\ntwo\nthree\n")
		}
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		t.Parallel()
		out, code, err := CombinedContext(logCtx(), "", "sh", "-c", "echo nope >&2; exit 3")
		if err != nil {
			t.Fatalf("CombinedContext() error = %v, want nil", err)
		}
		if code != 3 {
			t.Errorf("exit code = %d, want 3", code)
		}
		if got := string(out); got != "nope\n" {
			t.Errorf("output = %q, want %q", got, "nope\n")
		}
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		t.Parallel()
		_, _, err := CombinedContext(logCtx(), "", "orgit-definitely-not-a-binary")
		if err == nil {
			t.Error("CombinedContext() = nil, want error for missing binary")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(logCtx())
		cancel()
		_, _, err := CombinedContext(ctx, "", "sleep", "10")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("CombinedContext error = %v, want context.Canceled", err)
		}
	})
}

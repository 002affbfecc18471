// Package cmd provides helpers for executing shell commands with proper error handling.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/orgit/internal/log"
)

// OutputContext runs name with args in dir and returns stdout.
// Stderr is returned as the error message when the command fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	c := command(ctx, dir, name, args...)
	var stderr bytes.Buffer
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	out, err := c.Output()
	done(time.Since(start))

	if err := wrapErr(ctx, err, stderr.String()); err != nil {
		return nil, err
	}
	return out, nil
}

// CombinedContext runs name with args in dir and returns stdout and stderr
// interleaved in one buffer together with the exit code.
//
// A non-zero exit is not an error. The returned error is non-nil only when the
// process could not be started or the context was cancelled.
func CombinedContext(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	c := command(ctx, dir, name, args...)
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return buf.Bytes(), -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return buf.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return buf.Bytes(), -1, err
	}
	return buf.Bytes(), 0, nil
}

func command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		c.Dir = dir
	}
	return c
}

func wrapErr(ctx context.Context, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}

package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lunixbochs/vtclean"

	"github.com/raphi011/orgit/internal/cmd"
)

// DefaultBinary is the git executable looked up in PATH.
const DefaultBinary = "git"

var (
	// ErrDirectoryNotFound is returned when the working directory of a command
	// does not exist or is not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrSpawn matches every *SpawnError.
	ErrSpawn = errors.New("cannot run git")

	// ErrInvalidCommand is returned for command lines that cannot be split into words.
	ErrInvalidCommand = errors.New("invalid git command")
)

// SpawnError reports that the git process could not be started at all.
// It aborts a whole batch, unlike a non-zero exit.
type SpawnError struct {
	Binary string
	Args   []string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot run %s %s: %v", e.Binary, strings.Join(e.Args, " "), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }

// CommandResult is the outcome of one git invocation in one repository.
type CommandResult struct {
	Repository string
	Command    string
	Lines      []string
	ExitCode   int
}

// OK reports whether git exited with status zero.
func (r CommandResult) OK() bool {
	return r.ExitCode == 0
}

// Output returns the captured lines joined by newlines.
func (r CommandResult) Output() string {
	return strings.Join(r.Lines, "\n")
}

// Executor runs git sub-commands in repository directories.
// The zero value runs the git binary found in PATH.
type Executor struct {
	Binary string
}

// NewExecutor returns an Executor for binary, or for git when binary is empty.
func NewExecutor(binary string) *Executor {
	return &Executor{Binary: binary}
}

func (e *Executor) binary() string {
	if e == nil || e.Binary == "" {
		return DefaultBinary
	}
	return e.Binary
}

// Execute splits command into words and runs it as a git sub-command in dir.
//
// stdout and stderr are merged into one ordered list of lines. A non-zero exit
// is reported through CommandResult.ExitCode, not as an error.
func (e *Executor) Execute(ctx context.Context, command, dir string) (CommandResult, error) {
	args, err := SplitWords(command)
	if err != nil {
		return CommandResult{}, fmt.Errorf("%w %q: %v", ErrInvalidCommand, command, err)
	}
	if len(args) == 0 {
		return CommandResult{}, fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}
	return e.Run(ctx, dir, args...)
}

// Run executes git with pre-split args in dir.
func (e *Executor) Run(ctx context.Context, dir string, args ...string) (CommandResult, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CommandResult{}, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	res := CommandResult{
		Repository: filepath.Base(dir),
		Command:    strings.Join(args, " "),
	}

	out, code, err := cmd.CombinedContext(ctx, dir, e.binary(), args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, &SpawnError{Binary: e.binary(), Args: args, Err: err}
	}

	res.ExitCode = code
	res.Lines = splitLines(string(out))
	return res, nil
}

// splitLines strips terminal escape sequences and splits output into lines.
// A trailing newline does not produce an empty last line.
func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	raw := strings.Split(out, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, vtclean.Clean(strings.TrimRight(l, "\r"), false))
	}
	return lines
}

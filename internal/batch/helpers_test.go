package batch

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/log"
	"github.com/raphi011/orgit/internal/output"
	"github.com/raphi011/orgit/internal/remote"
)

// tempDir returns a temp directory with symlinks resolved (macOS /var -> /private/var).
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func mustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	c.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_TERMINAL_PROMPT=0")
	out, err := c.CombinedOutput()
	require.NoErrorf(t, err, "git %s: %s", strings.Join(args, " "), out)
	return string(out)
}

// initRepo creates a repository with one commit on main in parent/name.
func initRepo(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0o755))

	mustGit(t, path, "init", "-q")
	mustGit(t, path, "symbolic-ref", "HEAD", "refs/heads/main")
	mustGit(t, path, "config", "user.email", "test@test.com")
	mustGit(t, path, "config", "user.name", "Test User")
	mustGit(t, path, "config", "commit.gpgsign", "false")

	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("# "+name+"\n"), 0o644))
	mustGit(t, path, "add", "README.md")
	mustGit(t, path, "commit", "-q", "-m", "Initial commit")
	return path
}

// fakeRepo creates parent/name with an empty .git directory.
func fakeRepo(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0o755))
	return path
}

type call struct {
	Repo string
	Args string
}

// fakeExec records invocations and answers them with respond.
// Without respond every command succeeds with no output.
type fakeExec struct {
	respond func(repo string, args []string) (git.CommandResult, error)

	mu    sync.Mutex
	calls []call
}

func (f *fakeExec) Execute(ctx context.Context, command, dir string) (git.CommandResult, error) {
	args, err := git.SplitWords(command)
	if err != nil {
		return git.CommandResult{}, err
	}
	return f.Run(ctx, dir, args...)
}

func (f *fakeExec) Run(_ context.Context, dir string, args ...string) (git.CommandResult, error) {
	repo := filepath.Base(dir)
	f.mu.Lock()
	f.calls = append(f.calls, call{Repo: repo, Args: strings.Join(args, " ")})
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(repo, args)
	}
	return git.CommandResult{Repository: repo, Command: strings.Join(args, " ")}, nil
}

func (f *fakeExec) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeLister struct {
	repos remote.Repositories
	err   error
	orgs  []string
}

func (f *fakeLister) List(_ context.Context, org string) (remote.Repositories, error) {
	f.orgs = append(f.orgs, org)
	return f.repos, f.err
}

func listed(names ...string) remote.Repositories {
	repos := make(remote.Repositories, len(names))
	for _, n := range names {
		repos[n] = remote.Repository{Name: n, FullName: "horde/" + n, DefaultBranch: "master"}
	}
	return repos
}

// newTestRunner builds a Runner for base printing into the returned buffer.
func newTestRunner(t *testing.T, base string, mutate func(*config.Config, *Deps)) (*Runner, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	cfg.GitBase = base

	var buf bytes.Buffer
	d := Deps{
		Config:  &cfg,
		Printer: output.New(&buf),
		Logger:  log.New(&bytes.Buffer{}, false, false),
	}
	if mutate != nil {
		mutate(&cfg, &d)
	}
	return New(d), &buf
}

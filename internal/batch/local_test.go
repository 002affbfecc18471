package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
)

// checkoutTree builds base/LibA (with a develop branch), base/scratch (no
// .git), base/notes.txt and base/applications/impB (main only).
func checkoutTree(t *testing.T) string {
	t.Helper()
	base := tempDir(t)

	lib := initRepo(t, base, "LibA")
	mustGit(t, lib, "branch", "develop")

	require.NoError(t, os.MkdirAll(filepath.Join(base, "scratch"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("notes\n"), 0o644))

	apps := filepath.Join(base, git.ApplicationsDir)
	require.NoError(t, os.MkdirAll(apps, 0o755))
	initRepo(t, apps, "impB")
	return base
}

func TestCheckout_Develop(t *testing.T) {
	t.Parallel()
	base := checkoutTree(t)
	r, out := newTestRunner(t, base, nil)

	o, err := r.Checkout(context.Background(), "develop")
	require.NoError(t, err)

	assert.Equal(t, []string{"LibA"}, o.Succeeded())
	failed := o.FailedMap()
	require.Contains(t, failed, "impB")
	assert.Contains(t, failed["impB"], "* main")
	assert.Len(t, failed, 1)

	assert.Contains(t, mustGit(t, filepath.Join(base, "LibA"), "branch"), "* develop")

	got := out.String()
	assert.Contains(t, got, "Switching libraries branch: develop\n")
	assert.Contains(t, got, "Repository: LibA\n")
	assert.Contains(t, got, "Switching impB to branch: develop\n")
	assert.Contains(t, got, "The following repositories were successfully changed to develop\nLibA\n")
	assert.Contains(t, got, "The following repositories failed to be changed to develop\nimpB: ")
	assert.NotContains(t, got, "scratch")
}

func TestCheckout_DispatchReportsFailures(t *testing.T) {
	t.Parallel()
	base := checkoutTree(t)
	r, _ := newTestRunner(t, base, nil)

	err := r.Dispatch(context.Background(), "checkout", []string{"develop"})
	assert.ErrorIs(t, err, ErrSomeFailed)

	// Everything is on develop now
	mustGit(t, filepath.Join(base, git.ApplicationsDir, "impB"), "branch", "develop")
	err = r.Dispatch(context.Background(), "checkout", []string{"develop"})
	assert.NoError(t, err)
}

func TestCheckout_ExactLineMatch(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")
	fakeRepo(t, base, "Horde_Test")

	exec := &fakeExec{respond: func(repo string, args []string) (git.CommandResult, error) {
		if args[0] != "branch" {
			return git.CommandResult{Repository: repo}, nil
		}
		lines := map[string][]string{
			"Horde_Core": {"  master", "* feature-x"},
			"Horde_Test": {"  feature-x", "* feature-x-old"},
		}[repo]
		return git.CommandResult{Repository: repo, Lines: lines}, nil
	}}
	r, _ := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	o, err := r.Checkout(context.Background(), "feature-x")
	require.NoError(t, err)

	assert.Equal(t, []string{"Horde_Core"}, o.Succeeded())
	assert.Equal(t, map[string]string{"Horde_Test": "  feature-x\n* feature-x-old"}, o.FailedMap())

	assert.Equal(t, []call{
		{"Horde_Core", "checkout feature-x"},
		{"Horde_Core", "branch"},
		{"Horde_Test", "checkout feature-x"},
		{"Horde_Test", "branch"},
	}, exec.recorded())
}

func TestCheckout_MissingBranch(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner(t, tempDir(t), nil)

	_, err := r.Checkout(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingArgument)

	err = r.Dispatch(context.Background(), "checkout", nil)
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestLocalActions_MissingBase(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(tempDir(t), "nope")

	tests := []struct {
		action string
		args   []string
	}{
		{"checkout", []string{"develop"}},
		{"pull", nil},
		{"status", nil},
		{"diff", nil},
		{"run", []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			t.Parallel()
			exec := &fakeExec{}
			r, _ := newTestRunner(t, missing, func(_ *config.Config, d *Deps) { d.Executor = exec })

			err := r.Dispatch(context.Background(), tt.action, tt.args)
			assert.ErrorIs(t, err, ErrBaseDirMissing)
			assert.Empty(t, exec.recorded())
		})
	}

	t.Run("unset", func(t *testing.T) {
		t.Parallel()
		r, _ := newTestRunner(t, "", nil)
		assert.ErrorIs(t, r.Dispatch(context.Background(), "status", nil), ErrBaseDirMissing)
	})
}

func TestLocalActions_MissingApplicationsDir(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")

	exec := &fakeExec{}
	r, out := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	require.NoError(t, r.Status(context.Background()))
	assert.Contains(t, out.String(), "Could not find the applications checkout directory")
	assert.Equal(t, []call{{"Horde_Core", "status"}}, exec.recorded())
}

func TestRun_RepositoryMajor(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")
	fakeRepo(t, base, "Horde_Test")
	fakeRepo(t, filepath.Join(base, git.ApplicationsDir), "imp")

	exec := &fakeExec{}
	r, out := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	results, err := r.Run(context.Background(), []string{"fetch origin", `log -1 --format="%h %s"`})
	require.NoError(t, err)

	assert.Equal(t, []call{
		{"Horde_Core", "fetch origin"},
		{"Horde_Core", "log -1 --format=%h %s"},
		{"Horde_Test", "fetch origin"},
		{"Horde_Test", "log -1 --format=%h %s"},
		{"imp", "fetch origin"},
		{"imp", "log -1 --format=%h %s"},
	}, exec.recorded())
	require.Len(t, results, 6)
	assert.Equal(t, "imp", results[5].Repository)

	got := out.String()
	libs := strings.Index(got, "Starting update of libraries.")
	apps := strings.Index(got, "Starting update of applications.")
	assert.True(t, libs >= 0 && apps > libs, "library header precedes application header:\n%s", got)
	assert.Contains(t, got, "Repository: imp\n")
	assert.NotContains(t, got, ">>>GIT COMMAND")
}

func TestRun_Verbose(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")

	exec := &fakeExec{respond: func(repo string, args []string) (git.CommandResult, error) {
		return git.CommandResult{Repository: repo, Lines: []string{"out of " + args[0]}}, nil
	}}
	r, out := newTestRunner(t, base, func(_ *config.Config, d *Deps) {
		d.Executor = exec
		d.Verbose = true
	})

	_, err := r.Run(context.Background(), []string{"status", "stash list"})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "   >>>GIT COMMAND: status\n   >>>RESULTS: out of status\n")
	assert.Contains(t, got, "   >>>GIT COMMAND: stash list\n   >>>RESULTS: out of stash\n")
	assert.True(t, strings.HasSuffix(got, "Horde_Core\nout of status\nout of stash\n"), "final dump missing:\n%s", got)
}

func TestRun_InvalidArguments(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")
	exec := &fakeExec{}
	r, _ := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	_, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = r.Run(context.Background(), []string{"", "  "})
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = r.Run(context.Background(), []string{"status", `commit -m "unterminated`})
	assert.ErrorIs(t, err, git.ErrInvalidCommand)

	assert.Empty(t, exec.recorded())
}

func TestRun_SpawnErrorAbortsBatch(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")
	fakeRepo(t, base, "Horde_Test")

	exec := &fakeExec{respond: func(repo string, args []string) (git.CommandResult, error) {
		return git.CommandResult{}, &git.SpawnError{Binary: "git", Args: args, Err: os.ErrPermission}
	}}
	r, _ := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	err := r.Dispatch(context.Background(), "run", []string{"status", "diff"})
	assert.ErrorIs(t, err, git.ErrSpawn)
	assert.Len(t, exec.recorded(), 1)
}

func TestRun_RealGit(t *testing.T) {
	t.Parallel()
	base := checkoutTree(t)
	r, _ := newTestRunner(t, base, nil)

	results, err := r.Run(context.Background(), []string{"rev-parse --abbrev-ref HEAD", "no-such-command"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "LibA", results[0].Repository)
	assert.Equal(t, []string{"main"}, results[0].Lines)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, "impB", results[2].Repository)
}

func TestPull(t *testing.T) {
	t.Parallel()

	for _, useGet := range []bool{false, true} {
		t.Run(map[bool]string{false: "pull", true: "get"}[useGet], func(t *testing.T) {
			t.Parallel()
			base := tempDir(t)
			fakeRepo(t, base, "Horde_Core")
			fakeRepo(t, filepath.Join(base, git.ApplicationsDir), "imp")

			exec := &fakeExec{respond: func(repo string, args []string) (git.CommandResult, error) {
				if repo == "imp" {
					return git.CommandResult{Repository: repo, Lines: []string{"fatal: no upstream"}, ExitCode: 1}, nil
				}
				return git.CommandResult{Repository: repo, Lines: []string{"Already up to date."}}, nil
			}}
			r, out := newTestRunner(t, base, func(c *config.Config, d *Deps) {
				c.UseGitGet = useGet
				d.Executor = exec
			})

			o, err := r.Pull(context.Background())
			require.NoError(t, err)

			want := "pull"
			if useGet {
				want = "get"
			}
			assert.Equal(t, []call{{"Horde_Core", want}, {"imp", want}}, exec.recorded())
			assert.Equal(t, []string{"Horde_Core"}, o.Succeeded())
			assert.Equal(t, map[string]string{"imp": "fatal: no upstream"}, o.FailedMap())

			got := out.String()
			assert.Contains(t, got, "The following repositories were successfully updated\nHorde_Core\n")
			assert.Contains(t, got, "The following repositories failed to update\nimp: fatal: no upstream\n")
		})
	}
}

func TestPull_VanishedRepositoryIsRecorded(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")

	exec := &fakeExec{respond: func(repo string, _ []string) (git.CommandResult, error) {
		return git.CommandResult{}, errors.Join(git.ErrDirectoryNotFound, errors.New(repo))
	}}
	r, _ := newTestRunner(t, base, func(_ *config.Config, d *Deps) { d.Executor = exec })

	o, err := r.Pull(context.Background())
	require.NoError(t, err)
	assert.Contains(t, o.FailedMap(), "Horde_Core")
}

func TestStatusAndDiff(t *testing.T) {
	t.Parallel()
	base := checkoutTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "LibA", "README.md"), []byte("# changed\n"), 0o644))

	r, out := newTestRunner(t, base, nil)

	require.NoError(t, r.Status(context.Background()))
	got := out.String()
	assert.Contains(t, got, "LibA\n")
	assert.Contains(t, got, "impB\n")
	assert.Contains(t, got, "modified:")

	out.Reset()
	require.NoError(t, r.Diff(context.Background()))
	got = out.String()
	assert.Contains(t, got, "LibA\n")
	assert.Contains(t, got, "+# changed")
	assert.NotContains(t, got, "impB", "clean repositories are left out of diff")
}

func TestRepositoriesFilter(t *testing.T) {
	t.Parallel()
	base := tempDir(t)
	fakeRepo(t, base, "Horde_Core")
	fakeRepo(t, base, "Horde_Test")
	fakeRepo(t, filepath.Join(base, git.ApplicationsDir), "imp")
	fakeRepo(t, filepath.Join(base, git.ApplicationsDir), "turba")

	exec := &fakeExec{}
	r, out := newTestRunner(t, base, func(c *config.Config, d *Deps) {
		c.Repositories = []string{" imp", "Horde_Core", "imp", "Horde_Cor", ""}
		d.Executor = exec
	})

	require.NoError(t, r.Status(context.Background()))

	assert.Equal(t, []call{{"Horde_Core", "status"}, {"imp", "status"}}, exec.recorded())
	assert.Contains(t, out.String(), `Unknown repository "Horde_Cor", did you mean: Horde_Core?`)
}

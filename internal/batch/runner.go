package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/thoas/go-funk"

	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/log"
	"github.com/raphi011/orgit/internal/output"
	"github.com/raphi011/orgit/internal/remote"
)

var (
	// ErrUnknownAction is returned by Dispatch for names missing from the action table.
	ErrUnknownAction = errors.New("no action performed")

	// ErrMissingArgument is returned when an action lacks a required argument.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrUnexpectedArgument is returned when an action is given more arguments than it takes.
	ErrUnexpectedArgument = errors.New("unexpected argument")

	// ErrBaseDirMissing is returned when the base checkout directory does not exist.
	ErrBaseDirMissing = errors.New("base checkout directory does not exist")

	// ErrNoLister is returned by remote actions when no lister was configured.
	ErrNoLister = errors.New("no remote lister configured")

	// ErrSomeFailed is returned after the summary when at least one repository failed.
	ErrSomeFailed = errors.New("some repositories failed")
)

// Executor runs git sub-commands in a repository directory.
type Executor interface {
	Execute(ctx context.Context, command, dir string) (git.CommandResult, error)
	Run(ctx context.Context, dir string, args ...string) (git.CommandResult, error)
}

// Lister returns the remote repositories of an organization.
type Lister interface {
	List(ctx context.Context, org string) (remote.Repositories, error)
}

// Deps are the collaborators of a Runner.
type Deps struct {
	Config   *config.Config
	Executor Executor        // default: git executor for Config.GitBinary
	Lister   Lister          // required by list and clone
	Printer  *output.Printer // default: stdout
	Logger   *log.Logger     // default: discard
	Verbose  bool            // echo commands and dump results of run
}

// Runner executes actions against the checkout tree described by its config.
type Runner struct {
	cfg     *config.Config
	exec    Executor
	lister  Lister
	out     *output.Printer
	log     *log.Logger
	verbose bool
}

// New creates a Runner from d.
func New(d Deps) *Runner {
	cfg := d.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	exec := d.Executor
	if exec == nil {
		exec = git.NewExecutor(cfg.GitBinary)
	}

	out := d.Printer
	if out == nil {
		out = output.New(os.Stdout)
	}

	l := d.Logger
	if l == nil {
		l = log.FromContext(context.Background())
	}

	return &Runner{
		cfg:     cfg,
		exec:    exec,
		lister:  d.Lister,
		out:     out,
		log:     l,
		verbose: d.Verbose,
	}
}

func (r *Runner) layout() git.Layout {
	return git.Layout{Base: r.cfg.GitBase}
}

// localRepos scans the checkout tree and applies the repository filter.
func (r *Runner) localRepos(ctx context.Context) ([]git.Repository, error) {
	base := r.cfg.GitBase
	if base == "" {
		return nil, fmt.Errorf("%w: git_base is not configured", ErrBaseDirMissing)
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBaseDirMissing, base)
	}

	repos, err := git.ScanAll(ctx, r.layout(), r.out.Notice)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Scanned checkout tree", "base", base, "repositories", len(repos))

	return filterRepos(r, repos, func(repo git.Repository) string { return repo.Name }), nil
}

// split separates libraries from applications by the directory they were found in.
func (r *Runner) split(repos []git.Repository) (libs, apps []git.Repository) {
	layout := r.layout()
	for _, repo := range repos {
		if layout.InApplications(repo.Path) {
			apps = append(apps, repo)
		} else {
			libs = append(libs, repo)
		}
	}
	return libs, apps
}

// wanted returns the configured repository filter without blanks or duplicates.
func (r *Runner) wanted() []string {
	names := funk.Map(r.cfg.Repositories, strings.TrimSpace).([]string)
	names = funk.FilterString(names, func(s string) bool { return s != "" })
	return funk.UniqString(names)
}

// filterRepos keeps the items named in the repository filter. Filter names
// that match nothing produce a notice with the closest known names.
func filterRepos[T any](r *Runner, items []T, name func(T) string) []T {
	wanted := r.wanted()
	if len(wanted) == 0 || len(items) == 0 {
		if len(wanted) > 0 {
			r.warnUnknown(wanted, nil)
		}
		return items
	}

	known := funk.Map(items, name).([]string)
	r.warnUnknown(funk.FilterString(wanted, func(s string) bool {
		return !funk.ContainsString(known, s)
	}), known)

	return funk.Filter(items, func(item T) bool {
		return funk.ContainsString(wanted, name(item))
	}).([]T)
}

func (r *Runner) warnUnknown(unknown, known []string) {
	for _, name := range unknown {
		msg := fmt.Sprintf("Unknown repository %q", name)
		if suggestions := suggest(name, known); len(suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean: %s?", strings.Join(suggestions, ", "))
		}
		r.out.Notice(msg)
	}
}

// suggest returns up to three names from known that fuzzy match name.
func suggest(name string, known []string) []string {
	matches := fuzzy.Find(name, known)
	var out []string
	for _, m := range matches {
		if len(out) == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// perRepoError turns executor errors that only concern one repository into a
// failure detail. Other errors abort the batch.
func perRepoError(err error) (string, bool) {
	if errors.Is(err, git.ErrDirectoryNotFound) || errors.Is(err, git.ErrInvalidCommand) {
		return err.Error(), true
	}
	return "", false
}

// printSummary prints the success list and the failure list of o.
func (r *Runner) printSummary(o Outcome, okHeader, failHeader string) {
	if ok := o.Succeeded(); len(ok) > 0 {
		r.out.Success(okHeader)
		r.out.Plain(strings.Join(ok, "\n"))
	}

	if failed := o.Failed(); len(failed) > 0 {
		r.out.Error(failHeader)
		lines := make([]string, 0, len(failed))
		for _, e := range failed {
			lines = append(lines, e.Name+": "+e.Detail)
		}
		r.out.Error(strings.Join(lines, "\n"))
	}
}

// failures converts an Outcome with failed entries into ErrSomeFailed.
func failures(o Outcome) error {
	if !o.HasFailures() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrSomeFailed, len(o.Failed()), o.Len())
}

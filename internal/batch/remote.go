package batch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/remote"
	"github.com/raphi011/orgit/internal/ui/static"
)

// baseDirMode is the permission of a base directory created by clone.
const baseDirMode = 0o775

// CloneURL returns the anonymous clone URL <host>/<org>/<name>.git.
func CloneURL(host, org, name string) string {
	return strings.TrimRight(host, "/") + "/" + org + "/" + name + ".git"
}

// remoteRepos lists the organization and applies the repository filter.
// The result is sorted by name.
func (r *Runner) remoteRepos(ctx context.Context) ([]remote.Repository, error) {
	if r.lister == nil {
		return nil, ErrNoLister
	}

	listed, err := r.lister.List(ctx, r.cfg.Org)
	if err != nil {
		return nil, fmt.Errorf("list repositories of %s: %w", r.cfg.Org, err)
	}

	repos := make([]remote.Repository, 0, len(listed))
	for _, name := range listed.Names() {
		repo := listed[name]
		if repo.Name == "" {
			repo.Name = name
		}
		repos = append(repos, repo)
	}

	return filterRepos(r, repos, func(repo remote.Repository) string { return repo.Name }), nil
}

// List prints the names of the remote repositories that carry the marker file.
// In verbose mode a table with kind, default branch and description is printed instead.
func (r *Runner) List(ctx context.Context) ([]remote.Repository, error) {
	repos, err := r.remoteRepos(ctx)
	if err != nil {
		return nil, err
	}

	r.out.Info("Available remote repositories on " + r.cfg.Org)

	if r.verbose {
		rows := make([][]string, 0, len(repos))
		for _, repo := range repos {
			rows = append(rows, []string{repo.Name, kind(repo.Name), repo.DefaultBranch, repo.Description})
		}
		r.out.Render(static.RenderTable([]string{"NAME", "KIND", "BRANCH", "DESCRIPTION"}, rows))
		return repos, nil
	}

	for _, repo := range repos {
		r.out.Plain(repo.Name)
	}
	return repos, nil
}

func kind(name string) string {
	if git.IsApplication(name) {
		return "application"
	}
	return "library"
}

// Clone clones every listed repository that is not checked out yet.
// Libraries go to the base directory, applications to base/applications.
// The returned Outcome records one entry per attempted clone.
func (r *Runner) Clone(ctx context.Context) (Outcome, error) {
	base := r.cfg.GitBase
	if base == "" {
		return Outcome{}, fmt.Errorf("%w: git_base is not configured", ErrBaseDirMissing)
	}

	repos, err := r.remoteRepos(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if err := os.MkdirAll(base, baseDirMode); err != nil {
		return Outcome{}, fmt.Errorf("create base directory %s: %w", base, err)
	}

	layout := r.layout()
	var outcome Outcome

	for _, repo := range repos {
		target := layout.Target(repo.Name)
		if _, err := os.Stat(target); err == nil {
			r.out.Notice(fmt.Sprintf("Skipping %s, %s already exists", repo.Name, target))
			continue
		}

		url := CloneURL(r.cfg.GitHub.Host, r.cfg.Org, repo.Name)
		r.out.Info(fmt.Sprintf("Cloning %s into %s", repo.Name, target))

		res, err := r.exec.Run(ctx, base, "clone", url, target)
		if err != nil {
			detail, ok := perRepoError(err)
			if !ok {
				return outcome, err
			}
			r.out.Error(detail)
			outcome = outcome.With(Failed(repo.Name, detail))
			continue
		}

		r.printLines(res.Lines)
		if !res.OK() {
			r.out.Error("Failed to clone " + repo.Name)
			outcome = outcome.With(Failed(repo.Name, res.Output()))
			continue
		}
		outcome = outcome.With(Succeeded(repo.Name))
	}

	return outcome, nil
}

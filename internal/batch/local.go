package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/orgit/internal/git"
)

// Checkout switches every local repository to branch.
//
// A repository succeeds when `git branch` afterwards lists "* <branch>" as a
// full line. Failed repositories carry the branch listing as detail.
func (r *Runner) Checkout(ctx context.Context, branch string) (Outcome, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return Outcome{}, fmt.Errorf("%w: checkout needs a branch name", ErrMissingArgument)
	}

	repos, err := r.localRepos(ctx)
	if err != nil {
		return Outcome{}, err
	}
	libs, apps := r.split(repos)

	var entries []Entry

	r.out.Info("Switching libraries branch: " + branch)
	for _, repo := range libs {
		r.out.Info("Repository: " + repo.Name)
		e, err := r.checkoutOne(ctx, repo, branch)
		if err != nil {
			return NewOutcome(entries...), err
		}
		entries = append(entries, e)
	}

	for _, repo := range apps {
		r.out.Info(fmt.Sprintf("Switching %s to branch: %s", repo.Name, branch))
		e, err := r.checkoutOne(ctx, repo, branch)
		if err != nil {
			return NewOutcome(entries...), err
		}
		entries = append(entries, e)
	}

	outcome := NewOutcome(entries...)
	r.printSummary(outcome,
		"The following repositories were successfully changed to "+branch,
		"The following repositories failed to be changed to "+branch,
	)
	return outcome, nil
}

func (r *Runner) checkoutOne(ctx context.Context, repo git.Repository, branch string) (Entry, error) {
	res, err := r.exec.Run(ctx, repo.Path, "checkout", branch)
	if err != nil {
		if detail, ok := perRepoError(err); ok {
			return Failed(repo.Name, detail), nil
		}
		return Entry{}, err
	}
	r.log.Debug("git checkout finished", "repo", repo.Name, "exit", res.ExitCode)

	listing, err := r.exec.Run(ctx, repo.Path, "branch")
	if err != nil {
		if detail, ok := perRepoError(err); ok {
			return Failed(repo.Name, detail), nil
		}
		return Entry{}, err
	}

	if git.IsCurrentBranch(listing.Lines, branch) {
		return Succeeded(repo.Name), nil
	}
	return Failed(repo.Name, listing.Output()), nil
}

// pullCommand returns the git sub-command used to update repositories.
func (r *Runner) pullCommand() string {
	if r.cfg.UseGitGet {
		return "get"
	}
	return "pull"
}

// Pull updates every local repository with `git pull`, or `git get` when
// use_git_get is set. Failed repositories carry the command output as detail.
func (r *Runner) Pull(ctx context.Context) (Outcome, error) {
	repos, err := r.localRepos(ctx)
	if err != nil {
		return Outcome{}, err
	}
	libs, apps := r.split(repos)
	command := r.pullCommand()

	var outcome Outcome
	for _, group := range []struct {
		header string
		repos  []git.Repository
	}{
		{"Starting update of libraries.", libs},
		{"Starting update of applications.", apps},
	} {
		r.out.Info(group.header)
		for _, repo := range group.repos {
			r.out.Info("Repository: " + repo.Name)

			res, err := r.exec.Run(ctx, repo.Path, command)
			if err != nil {
				detail, ok := perRepoError(err)
				if !ok {
					return outcome, err
				}
				outcome = outcome.With(Failed(repo.Name, detail))
				continue
			}

			if r.verbose {
				r.printLines(res.Lines)
			}
			if res.OK() {
				outcome = outcome.With(Succeeded(repo.Name))
			} else {
				outcome = outcome.With(Failed(repo.Name, res.Output()))
			}
		}
	}

	r.printSummary(outcome,
		"The following repositories were successfully updated",
		"The following repositories failed to update",
	)
	return outcome, nil
}

// Status prints `git status` of every local repository.
func (r *Runner) Status(ctx context.Context) error {
	return r.report(ctx, "status", false)
}

// Diff prints `git diff` of every local repository with changes.
func (r *Runner) Diff(ctx context.Context) error {
	return r.report(ctx, "diff", true)
}

// report runs one read-only sub-command everywhere and prints the output
// under the repository name.
func (r *Runner) report(ctx context.Context, command string, skipEmpty bool) error {
	repos, err := r.localRepos(ctx)
	if err != nil {
		return err
	}

	for _, repo := range repos {
		res, err := r.exec.Run(ctx, repo.Path, command)
		if err != nil {
			detail, ok := perRepoError(err)
			if !ok {
				return err
			}
			r.out.Bold(repo.Name)
			r.out.Error(detail)
			continue
		}

		if skipEmpty && len(res.Lines) == 0 {
			r.log.Debug("No output", "repo", repo.Name, "command", command)
			continue
		}

		r.out.Bold(repo.Name)
		if !res.OK() {
			r.out.Error(res.Output())
			continue
		}
		r.printLines(res.Lines)
	}
	return nil
}

// Run executes every command in order in one repository before moving on to
// the next one. Results are returned in execution order.
func (r *Runner) Run(ctx context.Context, commands []string) ([]git.CommandResult, error) {
	commands = nonEmpty(commands)
	if len(commands) == 0 {
		return nil, fmt.Errorf("%w: run needs at least one git command", ErrMissingArgument)
	}
	for _, c := range commands {
		if _, err := git.SplitWords(c); err != nil {
			return nil, fmt.Errorf("%w %q: %v", git.ErrInvalidCommand, c, err)
		}
	}

	repos, err := r.localRepos(ctx)
	if err != nil {
		return nil, err
	}
	libs, apps := r.split(repos)

	var results []git.CommandResult

	runGroup := func(header string, group []git.Repository, done func(string)) error {
		r.out.Info(header)
		for _, repo := range group {
			for _, c := range commands {
				if r.verbose {
					r.out.Plain("   >>>GIT COMMAND: " + c)
				}

				res, err := r.exec.Execute(ctx, c, repo.Path)
				if err != nil {
					detail, ok := perRepoError(err)
					if !ok {
						return err
					}
					res = git.CommandResult{Repository: repo.Name, Command: c, Lines: []string{detail}, ExitCode: -1}
				}
				res.Repository = repo.Name
				results = append(results, res)

				if r.verbose {
					r.out.Plain("   >>>RESULTS: " + res.Output())
				}
			}
			done("Repository: " + repo.Name)
		}
		return nil
	}

	if err := runGroup("Starting update of libraries.", libs, r.out.Info); err != nil {
		return results, err
	}
	if err := runGroup("Starting update of applications.", apps, r.out.Success); err != nil {
		return results, err
	}

	if r.verbose {
		r.dumpResults(results)
	}
	return results, nil
}

// dumpResults prints the collected output grouped by repository.
func (r *Runner) dumpResults(results []git.CommandResult) {
	var order []string
	byRepo := make(map[string][]string)
	for _, res := range results {
		if _, seen := byRepo[res.Repository]; !seen {
			order = append(order, res.Repository)
		}
		byRepo[res.Repository] = append(byRepo[res.Repository], res.Lines...)
	}

	for _, name := range order {
		r.out.Bold(name)
		r.out.Plain(strings.Join(byRepo[name], "\n"))
	}
}

func (r *Runner) printLines(lines []string) {
	for _, line := range lines {
		r.out.Plain(line)
	}
}

func nonEmpty(list []string) []string {
	var out []string
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

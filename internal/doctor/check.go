package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/orgit/internal/cache"
	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
)

// checkTools verifies the git binary and, with use_git_get, the get alias.
func checkTools(ctx context.Context, cfg *config.Config, gitConfig GitConfig) []Issue {
	if err := git.CheckBinary(cfg.GitBinary); err != nil {
		return []Issue{{
			Key:         cfg.GitBinary,
			Description: err.Error(),
		}}
	}
	if !cfg.UseGitGet {
		return nil
	}

	dir := ""
	if isDir(cfg.GitBase) {
		dir = cfg.GitBase
	}
	_, ok, err := gitConfig.ConfigValue(ctx, dir, "alias.get")
	if err != nil {
		return []Issue{{Key: "alias.get", Description: err.Error()}}
	}
	if !ok {
		return []Issue{{
			Key:         "alias.get",
			Description: "use_git_get is set but git has no 'get' alias",
		}}
	}
	return nil
}

// checkConfig validates the effective configuration.
func checkConfig(cfg *config.Config) []Issue {
	var issues []Issue
	if err := config.Validate(cfg); err != nil {
		issues = append(issues, Issue{Key: "config", Description: err.Error()})
	}
	if cfg.GitBase == "" {
		issues = append(issues, Issue{
			Key:         "git_base",
			Description: "not set: use --git-base, ORGIT_GIT_BASE or the config file",
		})
	}
	return issues
}

// checkLayout verifies the checkout directories and where each repository lives.
// It is skipped when git_base is unset.
func checkLayout(cfg *config.Config, stats *Stats) ([]Issue, error) {
	if cfg.GitBase == "" {
		return nil, nil
	}
	layout := git.Layout{Base: cfg.GitBase}

	if !isDir(layout.Libraries()) {
		return []Issue{{
			Key:         layout.Libraries(),
			Description: "base checkout directory does not exist",
			FixAction:   FixCreateDir,
			Path:        layout.Libraries(),
		}}, nil
	}

	var issues []Issue
	for repo, err := range git.Scan(layout.Libraries()) {
		if err != nil {
			return nil, err
		}
		if !repo.IsApplication {
			stats.Libraries++
			continue
		}
		issues = append(issues, misplaced(layout, repo, "application checked out among libraries"))
	}

	if !isDir(layout.Applications()) {
		issues = append(issues, Issue{
			Key:         layout.Applications(),
			Description: "applications checkout directory does not exist",
			FixAction:   FixCreateDir,
			Path:        layout.Applications(),
		})
		return issues, nil
	}

	for repo, err := range git.Scan(layout.Applications()) {
		if err != nil {
			return nil, err
		}
		if repo.IsApplication {
			stats.Applications++
			continue
		}
		issues = append(issues, misplaced(layout, repo, "library checked out among applications"))
	}

	for _, issue := range issues {
		if issue.Target != "" {
			stats.Misplaced++
		}
	}
	return issues, nil
}

// misplaced describes a repository found outside its group's directory.
// The move is only offered when the target is free.
func misplaced(layout git.Layout, repo git.Repository, what string) Issue {
	target := layout.Target(repo.Name)
	issue := Issue{
		Key:         repo.Name,
		Description: fmt.Sprintf("%s, expected at %s", what, target),
		FixAction:   FixMove,
		Path:        repo.Path,
		Target:      target,
	}
	if _, err := os.Lstat(target); err == nil {
		issue.Description = fmt.Sprintf("%s, and %s already exists", what, target)
		issue.FixAction = FixNone
	}
	return issue
}

// checkCache verifies that the cache file decodes.
func checkCache(store *cache.Store, stats *Stats) []Issue {
	if store == nil {
		return nil
	}
	fresh, stale, err := store.Stats()
	if err != nil {
		return []Issue{{
			Key:         filepath.Base(store.Path()),
			Description: err.Error(),
			FixAction:   FixClearCache,
			Path:        store.Path(),
		}}
	}
	stats.CacheFresh = fresh
	stats.CacheStale = stale
	return nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

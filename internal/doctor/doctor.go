package doctor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/raphi011/orgit/internal/cache"
	"github.com/raphi011/orgit/internal/config"
	"github.com/raphi011/orgit/internal/git"
	"github.com/raphi011/orgit/internal/output"
)

// ErrIssuesFound is returned when issues remain after the run.
var ErrIssuesFound = errors.New("issues found")

// GitConfig reads git configuration values.
type GitConfig interface {
	ConfigValue(ctx context.Context, dir, key string) (value string, ok bool, err error)
}

// Options configures a doctor run.
type Options struct {
	Config   *config.Config
	Cache    *cache.Store // nil skips the cache check
	Git      GitConfig    // defaults to the configured git binary
	Fix      bool

	// Confirm is asked before repositories are moved. Nil moves without asking.
	Confirm func(prompt string) bool
}

// Run performs the diagnostic checks and optionally fixes issues.
// Progress and results go to the context's printer.
func Run(ctx context.Context, opts Options) (Report, error) {
	out := output.FromContext(ctx)
	cfg := opts.Config
	if opts.Git == nil {
		opts.Git = git.NewExecutor(cfg.GitBinary)
	}

	var report Report
	var all []Issue
	collect := func(cat IssueCategory, issues []Issue) {
		for i := range issues {
			issues[i].Category = cat
		}
		all = append(all, issues...)
	}

	out.Plain("Checking tools...")
	collect(CategoryTools, checkTools(ctx, cfg, opts.Git))

	out.Plain("Checking configuration...")
	collect(CategoryConfig, checkConfig(cfg))

	out.Plain("Checking checkout layout...")
	layoutIssues, err := checkLayout(cfg, &report.Stats)
	if err != nil {
		return report, err
	}
	collect(CategoryLayout, layoutIssues)

	if opts.Cache != nil {
		out.Plain("Checking cache...")
		collect(CategoryCache, checkCache(opts.Cache, &report.Stats))
	}

	printSummary(out, report.Stats, opts.Cache != nil)

	if len(all) == 0 {
		out.Plain("")
		out.Success("✓ No issues found")
		return report, nil
	}

	out.Plain(fmt.Sprintf("\nFound %d issues:", len(all)))
	printIssuesByCategory(out, all)

	if !opts.Fix {
		report.Issues = all
		if slices.ContainsFunc(all, Issue.Fixable) {
			out.Plain("\nRun 'orgit doctor --fix' to repair.")
		}
		return report, fmt.Errorf("%w: %d", ErrIssuesFound, len(all))
	}

	moves := countFunc(all, func(i Issue) bool { return i.FixAction == FixMove })
	allowMoves := moves == 0 || opts.Confirm == nil ||
		opts.Confirm(fmt.Sprintf("Move %d misplaced repositories?", moves))

	out.Plain("\nFixing issues...")
	report.Fixed, report.Issues = fixAllIssues(out, opts.Cache, all, allowMoves)
	if len(report.Issues) > 0 {
		return report, fmt.Errorf("%w: %d could not be fixed", ErrIssuesFound, len(report.Issues))
	}
	return report, nil
}

func countFunc(issues []Issue, f func(Issue) bool) int {
	n := 0
	for _, i := range issues {
		if f(i) {
			n++
		}
	}
	return n
}

// printSummary prints what the checks counted.
func printSummary(out *output.Printer, stats Stats, withCache bool) {
	out.Plain("")
	out.Plain(fmt.Sprintf("  ✓ %d libraries", stats.Libraries))
	out.Plain(fmt.Sprintf("  ✓ %d applications", stats.Applications))
	if stats.Misplaced > 0 {
		out.Notice(fmt.Sprintf("  ⚠ %d misplaced repositories", stats.Misplaced))
	}
	if withCache {
		out.Plain(fmt.Sprintf("  ✓ %d cache entries valid", stats.CacheFresh))
		if stats.CacheStale > 0 {
			out.Plain(fmt.Sprintf("  ⚠ %d stale cache entries", stats.CacheStale))
		}
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(out *output.Printer, issues []Issue) {
	categoryNames := map[IssueCategory]string{
		CategoryTools:  "Tool issues",
		CategoryConfig: "Configuration issues",
		CategoryLayout: "Layout issues",
		CategoryCache:  "Cache issues",
	}

	for _, cat := range []IssueCategory{CategoryTools, CategoryConfig, CategoryLayout, CategoryCache} {
		var lines []string
		for _, issue := range issues {
			if issue.Category == cat {
				lines = append(lines, fmt.Sprintf("  • %s: %s", issue.Key, issue.Description))
			}
		}
		if len(lines) == 0 {
			continue
		}

		out.Plain("\n" + categoryNames[cat] + ":")
		for _, line := range lines {
			out.Plain(line)
		}
	}
}

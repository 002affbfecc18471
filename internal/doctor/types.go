package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryTools represents problems with external programs.
	CategoryTools IssueCategory = "tools"
	// CategoryConfig represents problems with the effective configuration.
	CategoryConfig IssueCategory = "config"
	// CategoryLayout represents problems with the checkout directories.
	CategoryLayout IssueCategory = "layout"
	// CategoryCache represents problems with the HTTP cache file.
	CategoryCache IssueCategory = "cache"
)

// FixAction is the repair --fix applies to an issue.
type FixAction string

const (
	FixNone       FixAction = ""
	FixCreateDir  FixAction = "create_dir"
	FixMove       FixAction = "move"
	FixClearCache FixAction = "clear_cache"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // repository name, directory or setting
	Description string        // human-readable description
	FixAction   FixAction     // what --fix would do
	Category    IssueCategory // issue category
	Path        string        // directory the fix acts on
	Target      string        // destination of a move
}

// Fixable reports whether --fix can repair the issue.
func (i Issue) Fixable() bool {
	return i.FixAction != FixNone
}

// Stats counts what the checks found.
type Stats struct {
	Libraries    int // libraries in the base directory
	Applications int // applications below applications/
	Misplaced    int // repositories in the wrong group
	CacheFresh   int // cache entries still used
	CacheStale   int // cache entries past their ttl
}

// Report is the result of one doctor run.
type Report struct {
	Issues []Issue // issues left after fixing
	Fixed  []Issue // issues repaired by --fix
	Stats  Stats
}

package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/orgit/internal/cache"
	"github.com/raphi011/orgit/internal/output"
)

// dirMode matches the mode clone uses for the checkout directories.
const dirMode = 0o775

// fixAllIssues applies fixes for all fixable issues and splits them into
// repaired and remaining ones. Moves are skipped unless allowMoves is set.
func fixAllIssues(out *output.Printer, store *cache.Store, issues []Issue, allowMoves bool) (fixed, remaining []Issue) {
	for _, issue := range issues {
		if issue.FixAction == FixMove && !allowMoves {
			out.Notice(fmt.Sprintf("  ⚠ Skipped moving %s", issue.Key))
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.FixAction {
		case FixCreateDir:
			err = os.MkdirAll(issue.Path, dirMode)
			if err == nil {
				out.Success(fmt.Sprintf("  ✓ Created %s", issue.Path))
			}

		case FixMove:
			err = move(issue.Path, issue.Target)
			if err == nil {
				out.Success(fmt.Sprintf("  ✓ Moved %s to %s", issue.Key, issue.Target))
			}

		case FixClearCache:
			if store == nil {
				err = fmt.Errorf("cache is not enabled")
				break
			}
			err = store.Clear()
			if err == nil {
				out.Success(fmt.Sprintf("  ✓ Cleared %s", issue.Path))
			}

		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			out.Error(fmt.Sprintf("  ✗ Failed to fix %s: %v", issue.Key, err))
			remaining = append(remaining, issue)
			continue
		}
		fixed = append(fixed, issue)
	}
	return fixed, remaining
}

// move renames a repository directory, creating the target's parent.
func move(from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%s already exists", to)
	}
	if err := os.MkdirAll(filepath.Dir(to), dirMode); err != nil {
		return err
	}
	return os.Rename(from, to)
}

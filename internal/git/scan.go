package git

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"
)

// ApplicationsDir is the sub-directory of the base holding application repositories.
const ApplicationsDir = "applications"

// Repository is a local working copy found by the scanner.
type Repository struct {
	Name          string
	Path          string
	IsApplication bool
}

// IsApplication reports whether name belongs to an application repository.
// Libraries start with an uppercase letter (Horde_Core), applications do not (imp).
func IsApplication(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// isGitRepo reports whether path contains a .git directory.
func isGitRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}

// Scan lists the git repositories that are direct children of dir.
// The directory is read again on every iteration. A read failure is yielded
// once as an error and ends the sequence.
func Scan(dir string) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			yield(Repository{}, fmt.Errorf("failed to read directory %s: %w", dir, err))
			return
		}

		for _, entry := range entries {
			name := entry.Name()
			if name == "." || name == ".." {
				continue
			}

			// Stat follows symlinked checkouts.
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err != nil || !info.IsDir() || !isGitRepo(path) {
				continue
			}

			repo := Repository{Name: name, Path: path, IsApplication: IsApplication(name)}
			if !yield(repo, nil) {
				return
			}
		}
	}
}

// Layout describes where libraries and applications live under a base directory.
type Layout struct {
	Base string
}

// Libraries returns the directory holding library repositories.
func (l Layout) Libraries() string {
	return l.Base
}

// Applications returns the directory holding application repositories.
func (l Layout) Applications() string {
	return filepath.Join(l.Base, ApplicationsDir)
}

// Target returns the checkout path of the repository called name.
func (l Layout) Target(name string) string {
	if IsApplication(name) {
		return filepath.Join(l.Applications(), name)
	}
	return filepath.Join(l.Libraries(), name)
}

// InApplications reports whether path is a direct child of the applications directory.
func (l Layout) InApplications(path string) bool {
	return filepath.Dir(filepath.Clean(path)) == filepath.Clean(l.Applications())
}

// ScanAll scans the base directory and then the applications directory.
// A missing applications directory is reported through notice and is not an error.
func ScanAll(ctx context.Context, l Layout, notice func(string)) ([]Repository, error) {
	var repos []Repository

	for _, dir := range []string{l.Libraries(), l.Applications()} {
		if dir == l.Applications() {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				if notice != nil {
					notice("Could not find the applications checkout directory")
				}
				break
			}
		}

		for repo, err := range Scan(dir) {
			if err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			repos = append(repos, repo)
		}
	}

	return repos, nil
}

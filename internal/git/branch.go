package git

import "strings"

// IsCurrentBranch reports whether the output of `git branch` marks branch
// as the checked out one. Only an exact "* <branch>" line counts.
func IsCurrentBranch(lines []string, branch string) bool {
	want := "* " + branch
	for _, line := range lines {
		if strings.TrimRight(line, " \r") == want {
			return true
		}
	}
	return false
}

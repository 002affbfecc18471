package git

import (
	"fmt"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckBinary verifies that the named git binary can be found.
func CheckBinary(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return ErrGitNotFound
	}
	return nil
}

package git

import (
	"errors"
	"testing"
)

func TestCheckBinary_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckBinary(DefaultBinary); err != nil {
		t.Fatalf("CheckBinary(%q) = %v, want nil (git should be in PATH)", DefaultBinary, err)
	}
}

func TestCheckBinary_Missing(t *testing.T) {
	t.Parallel()
	err := CheckBinary("orgit-no-such-git")
	if !errors.Is(err, ErrGitNotFound) {
		t.Errorf("CheckBinary() = %v, want ErrGitNotFound", err)
	}
}

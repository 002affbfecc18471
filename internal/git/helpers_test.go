package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// mustGit runs git in dir and fails the test on a spawn error or non-zero exit.
func mustGit(t *testing.T, dir string, args ...string) CommandResult {
	t.Helper()
	res, err := NewExecutor("").Run(context.Background(), dir, args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	if !res.OK() {
		t.Fatalf("git %v exited %d: %s", args, res.ExitCode, res.Output())
	}
	return res
}

// setupTestRepo creates a repository called name under parent with a main
// branch and one commit. Returns the repository path.
func setupTestRepo(t *testing.T, parent, name string) string {
	t.Helper()
	repoPath := filepath.Join(parent, name)
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", repoPath, err)
	}

	mustGit(t, repoPath, "init", "-b", "main")
	mustGit(t, repoPath, "config", "user.email", "test@test.com")
	mustGit(t, repoPath, "config", "user.name", "Test User")
	mustGit(t, repoPath, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	mustGit(t, repoPath, "add", "README.md")
	mustGit(t, repoPath, "commit", "-m", "Initial commit")

	return repoPath
}

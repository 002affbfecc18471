package git

import (
	"context"
	"testing"
)

func TestExecutor_ConfigValue(t *testing.T) {
	t.Parallel()
	repo := setupTestRepo(t, resolveTempDir(t), "Horde_Core")
	mustGit(t, repo, "config", "alias.get", "pull --rebase")

	e := NewExecutor("")
	value, ok, err := e.ConfigValue(context.Background(), repo, "alias.get")
	if err != nil || !ok {
		t.Fatalf("ConfigValue(alias.get) = %q, %v, %v", value, ok, err)
	}
	if value != "pull --rebase" {
		t.Errorf("ConfigValue(alias.get) = %q, want %q", value, "pull --rebase")
	}

	value, ok, err = e.ConfigValue(context.Background(), repo, "orgit.unset")
	if err != nil || ok || value != "" {
		t.Errorf("ConfigValue(unset) = %q, %v, %v; want empty, false, nil", value, ok, err)
	}
}

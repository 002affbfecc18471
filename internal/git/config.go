package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/raphi011/orgit/internal/cmd"
)

// ConfigValue returns the value of the git config key as seen from dir.
// An empty dir reads only the global and system config.
// An unset key is not an error: ok is false.
func (e *Executor) ConfigValue(ctx context.Context, dir, key string) (value string, ok bool, err error) {
	out, err := cmd.OutputContext(ctx, dir, e.binary(), "config", "--get", key)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(string(out)), true, nil
}

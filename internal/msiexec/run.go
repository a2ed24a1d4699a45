package msiexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// runMsiexec launches msiexec as a child process and waits for it. A non-zero
// exit code is not an error here; classification happens at the caller.
func runMsiexec(ctx context.Context, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, "msiexec", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
			return -1, errors.Join(err, errors.New(trimmed))
		}
		return -1, err
	}
	return 0, nil
}

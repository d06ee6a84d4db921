package blocks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrExitStatus marks command output that was captured even though the
// command exited with a non-zero status.
var ErrExitStatus = errors.New("command exited with non-zero status")

// Runner executes shell commands for command blocks and click handlers.
type Runner interface {
	// Output runs command to completion and returns its standard output.
	Output(ctx context.Context, command string) ([]byte, error)
	// Start launches command without waiting for it.
	Start(command string) error
}

// Shell runs commands with "sh -c".
type Shell struct{}

func (Shell) Output(ctx context.Context, command string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return out, fmt.Errorf("%w: %w", ErrExitStatus, err)
	}
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", command, err)
	}
	return out, nil
}

func (Shell) Start(command string) error {
	cmd := exec.Command("sh", "-c", command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", command, err)
	}
	go func() { _ = cmd.Wait() }() // reap
	return nil
}

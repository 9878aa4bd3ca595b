package network

import (
	"context"
	"os/exec"

	"github.com/go-errors/errors"
)

// CommandExecutor abstracts running helper binaries.
type CommandExecutor interface {
	RunCommand(ctx context.Context, name string, arg ...string) (string, error)
}

type RealCommandExecutor struct{}

func (RealCommandExecutor) RunCommand(ctx context.Context, name string, arg ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Errorf("command %s %v failed: %v, output: %s", name, arg, err, string(output))
	}
	return string(output), nil
}

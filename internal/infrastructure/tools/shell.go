package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

const shellTimeout = 30 * time.Second

var _ output.ToolPort = (*ExecuteShell)(nil)

type ExecuteShell struct {
	logger output.LoggerPort
}

func NewExecuteShell(logger output.LoggerPort) *ExecuteShell {
	return &ExecuteShell{logger: logger}
}

func (t *ExecuteShell) Name() entity.ToolName {
	return entity.ToolExecuteShell
}

func (t *ExecuteShell) Builtin() bool {
	return true
}

func (t *ExecuteShell) Description() string {
	return "Execute a shell command and return its output. Use with caution. Has a 30 second timeout."
}

func (t *ExecuteShell) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "The shell command to execute",
			},
		},
		"required": []string{"command"},
	}
}

type shellArgs struct {
	Command string `json:"command"`
}

func (t *ExecuteShell) Execute(ctx context.Context, arguments string) (string, error) {
	var args shellArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if args.Command == "" {
		return "", fmt.Errorf("%w: command parameter is required", entity.ErrInvalidArguments)
	}

	t.logger.Info("executing shell command", "command", args.Command)

	ctx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", args.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command timed out (%s limit)", shellTimeout)
	}

	returncode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			returncode = exitErr.ExitCode()
		} else {
			return "", fmt.Errorf("command execution failed: %w", err)
		}
	}

	return marshalResult(map[string]any{
		"stdout":     stdout.String(),
		"stderr":     stderr.String(),
		"returncode": returncode,
	})
}

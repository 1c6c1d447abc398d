// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// runner abstracts command execution for testing.
type runner interface {
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osRunner struct{}

func (osRunner) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// CommandBackend runs "<command> run <model>" with the prompt on stdin and
// returns standard output.
type CommandBackend struct {
	command string
	model   string
	run     runner
}

// NewCommand returns a backend invoking command (normally "ollama").
func NewCommand(command, model string) *CommandBackend {
	return &CommandBackend{command: command, model: model, run: osRunner{}}
}

func (c *CommandBackend) Name() string { return c.command + ":" + c.model }

func (c *CommandBackend) Generate(ctx context.Context, prompt string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := c.run.RunPiped(ctx, c.command, []string{"run", c.model}, strings.NewReader(prompt), &stdout, &stderr)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("running %s run %s: %w: %s", c.command, c.model, err, msg)
		}
		return "", fmt.Errorf("running %s run %s: %w", c.command, c.model, err)
	}
	return stdout.String(), nil
}

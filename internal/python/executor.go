package python

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// Command describes one child process. Nil output writers are captured into Result.Output.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type Result struct {
	ExitCode int
	Output   []byte
}

// Executor runs a command to completion. A non-zero exit status is reported
// through Result.ExitCode; the error is reserved for processes that could not run.
type Executor interface {
	Execute(ctx context.Context, command Command) (Result, error)
}

type SystemExecutor struct{}

func (SystemExecutor) Execute(ctx context.Context, command Command) (result Result, err error) {
	process := exec.CommandContext(ctx, command.Name, command.Args...)
	process.Dir = command.Dir
	process.Stdin = command.Stdin

	output := &bytes.Buffer{}
	process.Stdout = output
	if command.Stdout != nil {
		process.Stdout = command.Stdout
	}
	process.Stderr = output
	if command.Stderr != nil {
		process.Stderr = command.Stderr
	}

	runErr := process.Run()
	result.Output = output.Bytes()

	var exitError *exec.ExitError
	if errors.As(runErr, &exitError) {
		result.ExitCode = exitError.ExitCode()
		return
	}
	err = runErr
	return
}

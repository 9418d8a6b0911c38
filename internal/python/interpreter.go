package python

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"udsterminal.dev/launcher/internal/manifest"
)

var (
	ErrRuntimeMissing = errors.New("python runtime not found")
	ErrModuleMissing  = errors.New("module cannot be imported")
	ErrInstallFailed  = errors.New("package installation failed")
	ErrProbeFailed    = errors.New("diagnostic probe failed")
)

// Interpreter runs every probe, install and launch through one Python executable.
type Interpreter struct {
	Executable string
	Executor   Executor

	// Streams handed to the target program
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewInterpreter(executable string) *Interpreter {
	return &Interpreter{
		Executable: executable,
		Executor:   SystemExecutor{},
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func (interpreter *Interpreter) run(ctx context.Context, args ...string) (Result, error) {
	return interpreter.Executor.Execute(ctx, Command{
		Name: interpreter.Executable,
		Args: args,
	})
}

// Version returns the interpreter banner, "Python 3.11.4" for instance.
func (interpreter *Interpreter) Version(ctx context.Context) (string, error) {
	result, err := interpreter.run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRuntimeMissing, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s exited with status %d", ErrRuntimeMissing, interpreter.Executable, result.ExitCode)
	}
	return strings.TrimSpace(string(result.Output)), nil
}

func (interpreter *Interpreter) CanImport(ctx context.Context, module string) error {
	if !manifest.IsModuleName(module) {
		return fmt.Errorf("%w: invalid module name %q", ErrModuleMissing, module)
	}
	result, err := interpreter.run(ctx, "-c", "import "+module)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %s", ErrModuleMissing, module)
	}
	return nil
}

// Evaluate runs a Python snippet and returns its combined output, also when it fails.
func (interpreter *Interpreter) Evaluate(ctx context.Context, code string) (string, error) {
	result, err := interpreter.run(ctx, "-c", code)
	output := strings.TrimSpace(string(result.Output))
	if err != nil {
		return output, err
	}
	if result.ExitCode != 0 {
		return output, fmt.Errorf("%w: exit status %d", ErrProbeFailed, result.ExitCode)
	}
	return output, nil
}

// Install runs a quiet, non interactive pip install of spec.
func (interpreter *Interpreter) Install(ctx context.Context, spec string) error {
	logrus.WithField("spec", spec).Debug("Running pip install")
	result, err := interpreter.run(ctx, "-m", "pip", "install", "-q", "--disable-pip-version-check", "--no-input", spec)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		logrus.WithField("spec", spec).Debug(string(result.Output))
		return fmt.Errorf("%w: %s exited with status %d", ErrInstallFailed, spec, result.ExitCode)
	}
	return nil
}

// Launch runs program with no arguments from dir, attached to the interpreter
// streams, and returns its exit status.
func (interpreter *Interpreter) Launch(ctx context.Context, dir string, program string) (int, error) {
	result, err := interpreter.Executor.Execute(ctx, Command{
		Name:   interpreter.Executable,
		Args:   []string{program},
		Dir:    dir,
		Stdin:  interpreter.Stdin,
		Stdout: interpreter.Stdout,
		Stderr: interpreter.Stderr,
	})
	if err != nil {
		return -1, err
	}
	return result.ExitCode, nil
}

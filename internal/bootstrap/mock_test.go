package bootstrap_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MockRuntime records every call, in order, as "<operation> <argument>".
type MockRuntime struct {
	Calls []string

	RuntimeMissing bool
	VersionBanner  string
	Missing        map[string]bool
	ExitCode       int
	LaunchError    error
	LaunchDir      string
	OnLaunch       func()
}

func (m *MockRuntime) Version(_ context.Context) (string, error) {
	m.Calls = append(m.Calls, "version")
	if m.RuntimeMissing {
		return "", errors.New("python runtime not found")
	}
	if m.VersionBanner == "" {
		return "Python 3.11.4", nil
	}
	return m.VersionBanner, nil
}

func (m *MockRuntime) CanImport(_ context.Context, module string) error {
	m.Calls = append(m.Calls, "import "+module)
	if m.Missing[module] {
		return fmt.Errorf("no module named %s", module)
	}
	return nil
}

func (m *MockRuntime) Evaluate(_ context.Context, code string) (string, error) {
	m.Calls = append(m.Calls, "evaluate "+code)
	return "<class 'PyQt6.QtWidgets.QApplication'>", nil
}

func (m *MockRuntime) Launch(_ context.Context, dir string, program string) (int, error) {
	m.Calls = append(m.Calls, "launch "+program)
	m.LaunchDir = dir
	if m.OnLaunch != nil {
		m.OnLaunch()
	}
	return m.ExitCode, m.LaunchError
}

func (m *MockRuntime) count(prefix string) (count int) {
	for _, call := range m.Calls {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return
}

// callsAfterLaunch returns the calls recorded after the first launch.
func (m *MockRuntime) callsAfterLaunch() []string {
	for index, call := range m.Calls {
		if strings.HasPrefix(call, "launch ") {
			return m.Calls[index+1:]
		}
	}
	return nil
}

type MockInstaller struct {
	Installed []string
	Fail      map[string]bool
	OnInstall func()
}

func (m *MockInstaller) Install(ctx context.Context, spec string) error {
	m.Installed = append(m.Installed, spec)
	if m.OnInstall != nil {
		m.OnInstall()
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if m.Fail[spec] {
		return errors.New("pip exited with status 1")
	}
	return nil
}

type MockConsole struct {
	Lines           []string
	Acknowledgments int
}

func (m *MockConsole) Banner(title string, lines ...string) {
	m.Lines = append(m.Lines, append([]string{title}, lines...)...)
}

func (m *MockConsole) Info(format string, args ...interface{}) {
	m.Lines = append(m.Lines, fmt.Sprintf(format, args...))
}

func (m *MockConsole) Success(format string, args ...interface{}) {
	m.Lines = append(m.Lines, fmt.Sprintf(format, args...))
}

func (m *MockConsole) Warning(format string, args ...interface{}) {
	m.Lines = append(m.Lines, fmt.Sprintf(format, args...))
}

func (m *MockConsole) Failure(format string, args ...interface{}) {
	m.Lines = append(m.Lines, fmt.Sprintf(format, args...))
}

func (m *MockConsole) Acknowledge(_ context.Context) {
	m.Acknowledgments++
}

func (m *MockConsole) Output() string {
	return strings.Join(m.Lines, "\n")
}

type MockShortcut struct {
	Written int
	Error   error
}

func (m *MockShortcut) Write(dir string, program string) (string, error) {
	m.Written++
	return dir + "/Launch.bat", m.Error
}

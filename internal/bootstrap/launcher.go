// Package bootstrap checks the Python runtime, provisions the missing
// requirements and hands control to the target program.
package bootstrap

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"udsterminal.dev/launcher/internal/manifest"
	"udsterminal.dev/launcher/internal/python"
	"udsterminal.dev/launcher/pkg/eventemitter"
)

type Runtime interface {
	Version(ctx context.Context) (string, error)
	CanImport(ctx context.Context, module string) error
	Evaluate(ctx context.Context, code string) (string, error)
	Launch(ctx context.Context, dir string, program string) (int, error)
}

type Installer interface {
	Install(ctx context.Context, spec string) error
}

type Console interface {
	Banner(title string, lines ...string)
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Failure(format string, args ...interface{})
	Acknowledge(ctx context.Context)
}

type Shortcut interface {
	Write(dir string, program string) (path string, err error)
}

// Exit status of the launcher when the target program never ran
const FAILURE_EXIT_CODE = 1

// Exit status of a run stopped by an interrupt
const INTERRUPTED_EXIT_CODE = 130

type Launcher struct {
	manifest  *manifest.Manifest
	runtime   Runtime
	installer Installer
	console   Console
	dir       string
	shortcut  Shortcut

	// Event emitters
	FinishedEventEmitter *eventemitter.EventEmitter[Report]
}

func NewLauncher(m *manifest.Manifest, runtime Runtime, installer Installer, console Console, dir string) *Launcher {
	return &Launcher{
		manifest:             m,
		runtime:              runtime,
		installer:            installer,
		console:              console,
		dir:                  dir,
		FinishedEventEmitter: &eventemitter.EventEmitter[Report]{},
	}
}

// SetShortcut enables the launcher shortcut written once every requirement is available.
func (launcher *Launcher) SetShortcut(shortcut Shortcut) {
	launcher.shortcut = shortcut
}

// Run executes the whole bootstrap sequence. It always ends with an
// acknowledgment pause and the report is emitted afterwards. Cancelling ctx
// stops the run before the next step with OutcomeInterrupted.
func (launcher *Launcher) Run(ctx context.Context) (report Report) {
	report = Report{
		ID:        uuid.New(),
		StartedAt: time.Now(),
	}
	log := logrus.WithField("run", report.ID.String())

	launcher.console.Banner(launcher.manifest.Title, "Dependency check and launcher")

	if !launcher.checkRuntime(ctx, &report) {
		if report.Outcome == OutcomeRuntimeMissing {
			log.Error("Python runtime not available, stopping")
		}
		launcher.finish(ctx, &report)
		return
	}

	launcher.console.Info("Checking required Python modules...")
	for _, requirement := range launcher.manifest.Requirements {
		if launcher.interrupted(ctx, &report) {
			launcher.finish(ctx, &report)
			return
		}
		probe := launcher.provision(ctx, requirement)
		report.Probes = append(report.Probes, probe)
		if probe.State == ProbeInterrupted {
			launcher.interrupted(ctx, &report)
			launcher.finish(ctx, &report)
			return
		}
	}
	if launcher.interrupted(ctx, &report) {
		launcher.finish(ctx, &report)
		return
	}

	if launcher.shortcut != nil && report.Ready() {
		if shortcutPath, err := launcher.shortcut.Write(launcher.dir, launcher.manifest.Program); err != nil {
			log.Warnf("Cannot write the launcher shortcut: %v", err)
		} else if shortcutPath != "" {
			launcher.console.Success("Created launcher shortcut %s", shortcutPath)
		}
	}

	launcher.launch(ctx, &report)
	launcher.finish(ctx, &report)
	return
}

// interrupted marks the report when ctx was cancelled and reports whether the run must stop.
func (launcher *Launcher) interrupted(ctx context.Context, report *Report) bool {
	if ctx.Err() == nil {
		return false
	}
	logrus.WithField("run", report.ID.String()).Warn("Run interrupted")
	report.Outcome = OutcomeInterrupted
	report.ExitCode = INTERRUPTED_EXIT_CODE
	launcher.console.Warning("Interrupted.")
	return true
}

func (launcher *Launcher) checkRuntime(ctx context.Context, report *Report) bool {
	required := launcher.manifest.Runtime
	version, err := launcher.runtime.Version(ctx)
	if err != nil && launcher.interrupted(ctx, report) {
		return false
	}
	if err != nil {
		logrus.Debug(err)
		launcher.console.Failure("%s was not found. Please install %s or newer and add it to PATH.", required.Name, required)
		report.Outcome = OutcomeRuntimeMissing
		report.ExitCode = FAILURE_EXIT_CODE
		return false
	}
	report.RuntimeVersion = version
	launcher.console.Info("%s version: %s", required.Name, version)
	launcher.console.Info("Operating system: %s/%s", runtime.GOOS, runtime.GOARCH)

	if required.MinVersion != "" {
		if supported, err := python.AtLeast(version, required.MinVersion); err != nil {
			logrus.Warnf("Cannot compare runtime version: %v", err)
		} else if !supported {
			launcher.console.Warning("%s is older than the supported %s", version, required)
		}
	}
	return true
}

func (launcher *Launcher) provision(ctx context.Context, requirement manifest.Requirement) (probe Probe) {
	probe.Requirement = requirement
	log := logrus.WithField("module", requirement.Module)

	importErr := launcher.runtime.CanImport(ctx, requirement.Module)
	if importErr == nil {
		log.Debug("Module present")
		launcher.console.Success("%s is installed", requirement.Module)
		probe.State = ProbePresent
		return
	}
	if ctx.Err() != nil {
		probe.State = ProbeInterrupted
		probe.Error = ctx.Err()
		return
	}
	log.Debug(importErr)

	spec := requirement.InstallSpec()
	launcher.console.Info("Installing %s...", spec)
	if err := launcher.installer.Install(ctx, spec); err != nil {
		if ctx.Err() != nil {
			probe.State = ProbeInterrupted
			probe.Error = ctx.Err()
			return
		}
		// Installer failures only surface if the launch fails afterwards
		log.WithField("spec", spec).Warn(err)
		probe.State = ProbeInstallFailed
		probe.Error = err
		return
	}
	log.WithField("spec", spec).Info("Module installed")
	launcher.console.Success("%s installed", spec)
	probe.State = ProbeInstalled
	return
}

func (launcher *Launcher) launch(ctx context.Context, report *Report) {
	program := launcher.manifest.Program
	launcher.console.Info("Starting %s...", launcher.manifest.Title)
	logrus.WithField("dir", launcher.dir).Infof("Launching %s", program)

	code, err := launcher.runtime.Launch(ctx, launcher.dir, program)
	if err != nil {
		logrus.Errorf("Cannot start %s: %v", program, err)
		code = FAILURE_EXIT_CODE
	}
	report.ExitCode = code
	if launcher.interrupted(ctx, report) {
		return
	}
	if err == nil && code == 0 {
		report.Outcome = OutcomeLaunched
		return
	}

	report.Outcome = OutcomeLaunchFailed
	logrus.WithField("exit_code", code).Warn("Target program failed")
	launcher.console.Failure("%s exited with status %d. Diagnostics:", program, code)
	launcher.diagnose(ctx, report)
	launcher.console.Failure("The application failed to start.")
	launcher.console.Info("Install the requirements manually with:")
	launcher.console.Info("  python -m pip install -U %s", strings.Join(launcher.manifest.PackageNames(), " "))
}

// diagnose runs the runtime version probe followed by the GUI requirement diagnostic.
func (launcher *Launcher) diagnose(ctx context.Context, report *Report) {
	version, err := launcher.runtime.Version(ctx)
	launcher.addDiagnostic(report, Diagnostic{Name: launcher.manifest.Runtime.Name, Output: version, Error: err})

	for _, requirement := range launcher.manifest.Diagnostics() {
		output, err := launcher.runtime.Evaluate(ctx, requirement.Diagnostic)
		launcher.addDiagnostic(report, Diagnostic{Name: requirement.Module, Output: output, Error: err})
	}
}

func (launcher *Launcher) addDiagnostic(report *Report, diagnostic Diagnostic) {
	report.Diagnostics = append(report.Diagnostics, diagnostic)
	if diagnostic.Error != nil {
		launcher.console.Warning("%s: %v %s", diagnostic.Name, diagnostic.Error, diagnostic.Output)
		return
	}
	launcher.console.Info("%s: %s", diagnostic.Name, diagnostic.Output)
}

func (launcher *Launcher) finish(ctx context.Context, report *Report) {
	if report.Outcome == OutcomeLaunched {
		logrus.Info("Target program exited normally")
	}
	// Returns at once when ctx is already cancelled
	launcher.console.Acknowledge(ctx)
	report.FinishedAt = time.Now()
	launcher.FinishedEventEmitter.Emit(*report)
}

package bootstrap

import (
	"time"

	"github.com/google/uuid"
	"udsterminal.dev/launcher/internal/manifest"
)

type Outcome string

const (
	OutcomeRuntimeMissing Outcome = "runtime-missing"
	OutcomeLaunched       Outcome = "launched"
	OutcomeLaunchFailed   Outcome = "launch-failed"
	OutcomeInterrupted    Outcome = "interrupted"
)

type ProbeState string

const (
	ProbePresent       ProbeState = "present"
	ProbeInstalled     ProbeState = "installed"
	ProbeInstallFailed ProbeState = "install-failed"
	ProbeInterrupted   ProbeState = "interrupted"
)

// Probe is the dependency probe result of one requirement.
type Probe struct {
	Requirement manifest.Requirement
	State       ProbeState
	Error       error
}

type Diagnostic struct {
	Name   string
	Output string
	Error  error
}

// Report describes one launcher run.
type Report struct {
	ID             uuid.UUID
	StartedAt      time.Time
	FinishedAt     time.Time
	RuntimeVersion string
	Outcome        Outcome
	Probes         []Probe
	ExitCode       int
	Diagnostics    []Diagnostic
}

// Installed lists the requirements installed during the run.
func (r *Report) Installed() (modules []string) {
	for _, probe := range r.Probes {
		if probe.State == ProbeInstalled {
			modules = append(modules, probe.Requirement.Module)
		}
	}
	return
}

// Ready reports whether every requirement was present or installed without installer errors.
func (r *Report) Ready() bool {
	for _, probe := range r.Probes {
		if probe.State == ProbeInstallFailed || probe.State == ProbeInterrupted {
			return false
		}
	}
	return r.Outcome != OutcomeRuntimeMissing && r.Outcome != OutcomeInterrupted
}

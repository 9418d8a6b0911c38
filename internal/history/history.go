package history

import (
	"database/sql"

	"github.com/sirupsen/logrus"
	"udsterminal.dev/launcher/internal/bootstrap"
	"udsterminal.dev/launcher/internal/history/delegate"
	"udsterminal.dev/launcher/internal/history/entity"
	"udsterminal.dev/launcher/pkg/eventemitter"
)

// Journal keeps the local history of the launcher runs.
type Journal struct {
	basePath string
	delegate delegate.HistoryDelegate
}

func NewJournal(basePath string, delegate delegate.HistoryDelegate) (instance *Journal) {
	instance = &Journal{
		basePath: basePath,
		delegate: delegate,
	}
	return
}

func (j *Journal) Open() (err error) {
	logrus.Debug("Connecting to history database")
	if err = j.delegate.Open(j.basePath); err != nil {
		return
	}
	logrus.Debug("Applying history database migrations")
	if err = j.delegate.Migrate(); err != nil {
		j.delegate.Close()
		return
	}
	return
}

func (j *Journal) Close() error {
	return j.delegate.Close()
}

// Record stores the run and the probe result of every requirement.
func (j *Journal) Record(report bootstrap.Report) error {
	run := entity.Run{
		ID:         report.ID.String(),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		RuntimeVersion: sql.NullString{
			String: report.RuntimeVersion,
			Valid:  report.RuntimeVersion != "",
		},
		Outcome:  string(report.Outcome),
		ExitCode: report.ExitCode,
	}
	for _, probe := range report.Probes {
		entry := entity.Probe{
			Module: probe.Requirement.Module,
			Spec:   probe.Requirement.InstallSpec(),
			State:  string(probe.State),
		}
		if probe.Error != nil {
			entry.Error = sql.NullString{String: probe.Error.Error(), Valid: true}
		}
		run.Probes = append(run.Probes, entry)
	}
	return j.delegate.StoreRun(&run)
}

// LastRun returns the most recent run, nil when the journal is empty.
func (j *Journal) LastRun() (*entity.Run, error) {
	runs, err := j.delegate.LastRuns(1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// Subscribe records every report published by emitter.
func (j *Journal) Subscribe(emitter *eventemitter.EventEmitter[bootstrap.Report]) {
	emitter.Subscribe(func(report bootstrap.Report) {
		if err := j.Record(report); err != nil {
			logrus.Errorf("Cannot record run %s: %v", report.ID, err)
			return
		}
		logrus.WithField("run", report.ID.String()).Debug("Run recorded")
	})
}

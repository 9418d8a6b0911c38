package mock

import (
	"sort"

	"udsterminal.dev/launcher/internal/history/entity"
)

type MockDelegate struct {
	FailOpen      bool
	FailMigration bool
	FailStore     bool
	Error         error

	Opened   bool
	BasePath string
	Runs     []entity.Run
}

func (m *MockDelegate) Open(basePath string) error {
	if m.FailOpen {
		return m.Error
	}
	m.Opened = true
	m.BasePath = basePath
	return nil
}

func (m *MockDelegate) Close() error {
	m.Opened = false
	return nil
}

func (m *MockDelegate) Migrate() error {
	if m.FailMigration {
		return m.Error
	}
	return nil
}

func (m *MockDelegate) StoreRun(run *entity.Run) error {
	if m.FailStore {
		return m.Error
	}
	m.Runs = append(m.Runs, *run)
	return nil
}

func (m *MockDelegate) LastRuns(limit int) ([]entity.Run, error) {
	runs := make([]entity.Run, len(m.Runs))
	copy(runs, m.Runs)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

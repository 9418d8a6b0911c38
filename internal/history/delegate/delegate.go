package delegate

import "udsterminal.dev/launcher/internal/history/entity"

type HistoryDelegate interface {
	Open(basePath string) error
	Close() error
	Migrate() error
	StoreRun(run *entity.Run) error
	// Most recent runs first
	LastRuns(limit int) ([]entity.Run, error)
}

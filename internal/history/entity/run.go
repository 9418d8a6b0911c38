package entity

import (
	"database/sql"
	"time"
)

type Run struct {
	ID             string    `gorm:"primaryKey"`
	StartedAt      time.Time `gorm:"not null;index"`
	FinishedAt     time.Time
	RuntimeVersion sql.NullString
	Outcome        string `gorm:"not null"`
	ExitCode       int
	Probes         []Probe
}

type Probe struct {
	Id     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"not null;index"`
	Module string `gorm:"not null"`
	Spec   string `gorm:"not null"`
	State  string `gorm:"not null"`
	Error  sql.NullString
}

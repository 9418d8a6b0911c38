package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"udsterminal.dev/launcher/internal/history/entity"
)

const DATABASE_FILE_NAME = "history.db"

type SQLiteDelegate struct{ database *gorm.DB }

func (sqliteDelegate *SQLiteDelegate) Open(basePath string) (err error) {
	if err = os.MkdirAll(basePath, 0755); err != nil {
		return
	}
	dialector := sqlite.Open(filepath.Join(basePath, DATABASE_FILE_NAME))
	if sqliteDelegate.database, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}); err != nil {
		return
	}
	return
}

func (sqliteDelegate *SQLiteDelegate) Migrate() (err error) {
	return sqliteDelegate.database.AutoMigrate(&entity.Run{}, &entity.Probe{})
}

func (sqliteDelegate *SQLiteDelegate) Close() (err error) {
	if sqliteDelegate.database == nil {
		return
	}
	var database *sql.DB
	if database, err = sqliteDelegate.database.DB(); err != nil {
		return
	}
	if err = database.Close(); err != nil {
		return
	}
	sqliteDelegate.database = nil
	return
}

func (sqliteDelegate *SQLiteDelegate) StoreRun(run *entity.Run) error {
	if result := sqliteDelegate.database.Create(run); result.Error != nil {
		return result.Error
	}
	return nil
}

func (sqliteDelegate *SQLiteDelegate) LastRuns(limit int) (runs []entity.Run, err error) {
	if result := sqliteDelegate.database.
		Preload("Probes").
		Order("started_at desc").
		Limit(limit).
		Find(&runs); result.Error != nil {
		err = result.Error
		return
	}
	return
}

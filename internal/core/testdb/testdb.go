// Package testdb opens an in-memory SQLite database carrying the full schema,
// with foreign keys enforced and driver errors translated the same way the
// postgres dialector translates them.
package testdb

import (
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dsn = "file::memory:?_foreign_keys=on"

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// every pooled connection to :memory: would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(datamodel.All()...); err != nil {
		return nil, err
	}
	return db, nil
}

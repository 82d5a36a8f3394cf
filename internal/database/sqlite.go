package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a SQLite database. Pass ":memory:" for a throwaway
// database; the pool is pinned to one connection so every query sees the
// same in-memory schema.
func OpenSQLite(path string, zapLogger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                                   NewGormLogger(zapLogger),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	zapLogger.Info("database connected",
		zap.String("driver", "sqlite"),
		zap.String("path", path),
	)

	return db, nil
}

// OpenTestDB opens a migrated in-memory SQLite database
func OpenTestDB() (*gorm.DB, error) {
	db, err := OpenSQLite(":memory:", zap.NewNop())
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate test database: %w", err)
	}
	return db, nil
}

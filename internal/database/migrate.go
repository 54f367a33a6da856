package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chronogift/internal/middleware"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	middleware.Logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	middleware.Logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func migrationTarget(driver string) (dialect, dir string, err error) {
	switch driver {
	case "postgres", "":
		return "postgres", "migrations/postgres", nil
	case "sqlite":
		return "sqlite3", "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func withGoose(driver string, fn func(dir string) error) error {
	dialect, dir, err := migrationTarget(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return fn(dir)
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return withGoose(driver, func(dir string) error {
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return withGoose(driver, func(dir string) error {
		return goose.DownContext(ctx, sqlDB, dir)
	})
}

// SchemaVersion returns the currently applied migration version.
func SchemaVersion(ctx context.Context, db *gorm.DB, driver string) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	var version int64
	err = withGoose(driver, func(_ string) error {
		v, err := goose.GetDBVersionContext(ctx, sqlDB)
		version = v
		return err
	})
	return version, err
}

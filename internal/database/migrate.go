package database

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/at-ishikawa/devnote/schemas"
)

const migrationTableName = "schema_migrations"

type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf does not exit so that the caller can handle the error.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// Migrate applies the embedded migrations matching the connection's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dir, dialect, err := migrationSource(db.DriverName())
	if err != nil {
		return err
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(schemas.Migrations)
	goose.SetTableName(migrationTableName)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose.SetDialect(%s) > %w", dialect, err)
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("goose.UpContext(%s) > %w", dir, err)
	}
	return nil
}

func migrationSource(driverName string) (dir string, dialect string, err error) {
	switch driverName {
	case "mysql":
		return path.Join("migrations", DriverMySQL), "mysql", nil
	case "sqlite":
		return path.Join("migrations", DriverSQLite), "sqlite3", nil
	case "pgx", "postgres":
		return path.Join("migrations", DriverPostgres), "postgres", nil
	}
	return "", "", fmt.Errorf("no migrations for database driver: %s", driverName)
}

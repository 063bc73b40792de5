package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/database"
)

// DBStorage stores snapshots in the snapshots table.
type DBStorage struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewDBStorage creates a DBStorage. The schema must already be migrated.
func NewDBStorage(db *sqlx.DB, c clock.Clock) *DBStorage {
	if c == nil {
		c = clock.System{}
	}
	return &DBStorage{db: db, clock: c}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

func (s *DBStorage) upsertQuery() string {
	if s.db.DriverName() == "mysql" {
		return "INSERT INTO snapshots (snapshot_key, body, updated_at) VALUES (?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = VALUES(updated_at)"
	}
	return "INSERT INTO snapshots (snapshot_key, body, updated_at) VALUES (?, ?, ?) " +
		"ON CONFLICT (snapshot_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at"
}

func (s *DBStorage) upsert(ctx context.Context, e execer, key string, data []byte) error {
	if _, err := e.ExecContext(ctx, e.Rebind(s.upsertQuery()), key, string(data), s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("ExecContext(upsert snapshot %s) > %w", key, err)
	}
	return nil
}

// Read returns ErrNotFound for a missing or empty body.
func (s *DBStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := s.db.GetContext(ctx, &body, s.db.Rebind("SELECT body FROM snapshots WHERE snapshot_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(snapshot %s) > %w", key, err)
	}
	if body == "" {
		return nil, ErrNotFound
	}
	return []byte(body), nil
}

func (s *DBStorage) Write(ctx context.Context, key string, data []byte) error {
	return s.upsert(ctx, s.db, key, data)
}

// Copy copies srcKey to dstKey in one transaction.
func (s *DBStorage) Copy(ctx context.Context, srcKey, dstKey string, check func([]byte) error) error {
	return database.RunInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var body string
		err := tx.GetContext(ctx, &body, tx.Rebind("SELECT body FROM snapshots WHERE snapshot_key = ?"), srcKey)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && body == "") {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("tx.GetContext(snapshot %s) > %w", srcKey, err)
		}
		if check != nil {
			if err := check([]byte(body)); err != nil {
				return err
			}
		}
		return s.upsert(ctx, tx, dstKey, []byte(body))
	})
}

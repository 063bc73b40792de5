// Package persistence loads and saves the journal document and keeps a backup copy of it.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/migration"
	"github.com/at-ishikawa/devnote/internal/storage"
)

// Gateway reads the primary snapshot, falling back to the backup, and overwrites the primary on save.
type Gateway struct {
	storage    storage.Storage
	primaryKey string
	backupKey  string
	logger     *slog.Logger
}

// NewGateway creates a Gateway. A nil logger uses slog.Default().
func NewGateway(s storage.Storage, primaryKey, backupKey string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		storage:    s,
		primaryKey: primaryKey,
		backupKey:  backupKey,
		logger:     logger,
	}
}

// Load never fails. It returns the migrated primary snapshot, the migrated backup when the
// primary is missing or unreadable, or an empty document when neither can be used.
func (g *Gateway) Load(ctx context.Context) *journal.RootState {
	root, err := g.read(ctx, g.primaryKey)
	if err == nil {
		return migration.Migrate(root)
	}
	g.logFallback(g.primaryKey, err)

	root, err = g.read(ctx, g.backupKey)
	if err == nil {
		g.logger.Warn("Recovered journal from the backup snapshot", "key", g.backupKey)
		return migration.Migrate(root)
	}
	g.logFallback(g.backupKey, err)

	g.logger.Info("Starting with an empty journal")
	return migration.Migrate(nil)
}

func (g *Gateway) read(ctx context.Context, key string) (*journal.RootState, error) {
	data, err := g.storage.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("storage.Read(%s) > %w", key, err)
	}
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("Decode(%s) > %w", key, err)
	}
	return root, nil
}

func (g *Gateway) logFallback(key string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		g.logger.Info("No journal snapshot found", "key", key)
		return
	}
	g.logger.Warn("Failed to load the journal snapshot", "key", key, "error", err)
}

// Save overwrites the primary snapshot with the whole document.
// A failed write returns an error wrapping ErrStorageUnavailable; the in-memory document stays usable.
func (g *Gateway) Save(ctx context.Context, root *journal.RootState) error {
	data, err := Encode(root)
	if err != nil {
		return err
	}
	if err := g.storage.Write(ctx, g.primaryKey, data); err != nil {
		g.logger.Warn("Failed to save the journal snapshot", "key", g.primaryKey, "error", err)
		return fmt.Errorf("%w: storage.Write(%s) > %w", ErrStorageUnavailable, g.primaryKey, err)
	}
	g.logger.Debug("Saved the journal snapshot", "key", g.primaryKey, "bytes", len(data))
	return nil
}

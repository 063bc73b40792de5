package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/devnote/internal/storage"
)

// BackupGuardian periodically copies the primary snapshot into the backup slot.
// Only a primary that decodes is copied, so a corrupt primary never replaces a good backup.
type BackupGuardian struct {
	storage    storage.Storage
	primaryKey string
	backupKey  string
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewBackupGuardian creates a BackupGuardian. A nil logger uses slog.Default().
func NewBackupGuardian(s storage.Storage, primaryKey, backupKey string, logger *slog.Logger) *BackupGuardian {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupGuardian{
		storage:    s,
		primaryKey: primaryKey,
		backupKey:  backupKey,
		logger:     logger,
	}
}

// BackupOnce copies the primary snapshot to the backup slot.
// It returns storage.ErrNotFound when there is no primary and ErrStorageCorrupt when it does not decode.
func (b *BackupGuardian) BackupOnce(ctx context.Context) error {
	if copier, ok := b.storage.(storage.Copier); ok {
		if err := copier.Copy(ctx, b.primaryKey, b.backupKey, checkSnapshot); err != nil {
			return fmt.Errorf("copier.Copy(%s, %s) > %w", b.primaryKey, b.backupKey, err)
		}
		return nil
	}

	data, err := b.storage.Read(ctx, b.primaryKey)
	if err != nil {
		return fmt.Errorf("storage.Read(%s) > %w", b.primaryKey, err)
	}
	if err := checkSnapshot(data); err != nil {
		return err
	}
	if err := b.storage.Write(ctx, b.backupKey, data); err != nil {
		return fmt.Errorf("%w: storage.Write(%s) > %w", ErrStorageUnavailable, b.backupKey, err)
	}
	return nil
}

// Start runs BackupOnce every interval until Stop is called or ctx is done.
func (b *BackupGuardian) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid backup interval: %s", interval)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return errors.New("backup guardian is already running")
	}
	b.running = true
	b.stopCh = make(chan struct{})

	b.wg.Add(1)
	go b.loop(ctx, interval, b.stopCh)

	b.logger.Info("Backup guardian started", "interval", interval, "backup_key", b.backupKey)
	return nil
}

func (b *BackupGuardian) loop(ctx context.Context, interval time.Duration, stopCh <-chan struct{}) {
	defer b.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.runOnce(ctx)
		case <-stopCh:
			return
		case <-ctx.Done():
			b.mu.Lock()
			if b.running && b.stopCh == stopCh {
				b.running = false
			}
			b.mu.Unlock()
			b.logger.Info("Backup guardian stopped", "reason", ctx.Err())
			return
		}
	}
}

func (b *BackupGuardian) runOnce(ctx context.Context) {
	err := b.BackupOnce(ctx)
	switch {
	case err == nil:
		b.logger.Debug("Backed up the journal snapshot", "backup_key", b.backupKey)
	case errors.Is(err, storage.ErrNotFound):
		b.logger.Debug("No primary snapshot to back up", "key", b.primaryKey)
	case errors.Is(err, ErrStorageCorrupt):
		b.logger.Warn("Skipped backup of a corrupt primary snapshot", "key", b.primaryKey, "error", err)
	default:
		b.logger.Error("Backup failed", "error", err)
	}
}

// Stop stops the loop and waits for a running backup to finish. It is safe to call more than once.
func (b *BackupGuardian) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stopCh)
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("Backup guardian stopped")
}

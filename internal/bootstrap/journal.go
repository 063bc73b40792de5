package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/config"
	"github.com/at-ishikawa/devnote/internal/database"
	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/persistence"
	"github.com/at-ishikawa/devnote/internal/remote"
	"github.com/at-ishikawa/devnote/internal/statistics"
	"github.com/at-ishikawa/devnote/internal/storage"
)

const DriverFile = "file"

var ErrRemoteNotConfigured = errors.New("remote sync is not configured: set remote.base_url and DEVNOTE_REMOTE_KEY")

// Journal is a loaded journal together with the storage it was loaded from.
type Journal struct {
	Config  *config.Config
	Storage storage.Storage
	Gateway *persistence.Gateway
	Store   *journal.Store

	closeStorage func() error
}

// OpenStorage returns the storage selected by storage.driver. Database drivers get their schema migrated.
// The returned function releases the storage.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func() error, error) {
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == DriverFile {
		return storage.NewFileStorage(cfg.Storage.Directory), func() error { return nil }, nil
	}

	db, err := database.Open(cfg.Storage.Driver, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return storage.NewDBStorage(db, clock.System{}), db.Close, nil
}

// OpenJournal loads the journal from the configured storage. Loading itself never fails;
// only opening the storage can.
func OpenJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Journal, error) {
	s, closeStorage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenStorage() > %w", err)
	}
	gateway := persistence.NewGateway(s, cfg.Storage.PrimaryKey, cfg.Storage.BackupKey, logger)
	root := gateway.Load(ctx)

	return &Journal{
		Config:       cfg,
		Storage:      s,
		Gateway:      gateway,
		Store:        journal.NewStore(root, gateway),
		closeStorage: closeStorage,
	}, nil
}

// NewBackupGuardian returns a guardian copying the primary slot of j into its backup slot.
func (j *Journal) NewBackupGuardian(logger *slog.Logger) *persistence.BackupGuardian {
	return persistence.NewBackupGuardian(j.Storage, j.Config.Storage.PrimaryKey, j.Config.Storage.BackupKey, logger)
}

func (j *Journal) Close() error {
	if j.closeStorage == nil {
		return nil
	}
	return j.closeStorage()
}

// Location returns the zone used to bound days, weeks and months. An empty timezone means the local zone.
func Location(cfg *config.Config) (*time.Location, error) {
	if cfg.Stats.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Stats.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) > %w", cfg.Stats.Timezone, err)
	}
	return loc, nil
}

func StatsOptions(cfg *config.Config) statistics.Options {
	return statistics.Options{
		Window:  statistics.Window(cfg.Stats.Window),
		TopTags: cfg.Stats.TopTags,
	}
}

// NewRemoteClient returns the sync client and the document key it reads and writes.
func NewRemoteClient(cfg *config.Config) (*remote.Client, error) {
	if cfg.Remote.BaseURL == "" || cfg.Remote.Key == "" {
		return nil, ErrRemoteNotConfigured
	}
	timeout := time.Duration(cfg.Remote.TimeoutSeconds) * time.Second
	return remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Collection, cfg.Remote.RetryAttempts, timeout), nil
}

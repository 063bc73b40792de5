package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openJournal loads the configuration and the journal it points to. The caller closes the journal.
func openJournal(ctx context.Context) (*bootstrap.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	j, err := bootstrap.OpenJournal(ctx, cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("bootstrap.OpenJournal() > %w", err)
	}
	return j, nil
}

// withJournal runs fn with an open journal and closes it afterwards.
func withJournal(ctx context.Context, fn func(j *bootstrap.Journal) error) (err error) {
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := j.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("journal.Close() > %w", closeErr)
		}
	}()
	return fn(j)
}

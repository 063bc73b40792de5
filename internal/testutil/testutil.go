// Package testutil provides shared test helpers for creating config files and journal fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/migration"
	"github.com/at-ishikawa/devnote/internal/persistence"
	"github.com/at-ishikawa/devnote/internal/storage"
)

const (
	PrimaryKey = "devnote_data"
	BackupKey  = "devnote_data_backup"
)

// SetupTestConfig creates a config file using the file driver with its data directory under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`storage:
  driver: file
  directory: %s
  primary_key: %s
  backup_key: %s
stats:
  timezone: UTC
timer:
  focus_minutes: 1
`,
		dataDir,
		PrimaryKey,
		BackupKey,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSQLite creates a config file using the sqlite driver with the database file under tmpDir.
func SetupTestConfigWithSQLite(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("database:\n  path: %s\n", filepath.Join(tmpDir, "devnote.db")))...)
	content = []byte(strings.Replace(string(content), "driver: file", "driver: sqlite", 1))
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// RootOption configures the journal fixture.
type RootOption func(*journal.RootState)

// WithReviewedLog marks the log as reviewed at reviewedAt with the given understanding.
func WithReviewedLog(id string, understanding int, reviewedAt time.Time) RootOption {
	return func(root *journal.RootState) {
		for i := range root.Logs {
			if root.Logs[i].ID != id {
				continue
			}
			next := reviewedAt.AddDate(0, 0, 7)
			root.Logs[i].Understanding = understanding
			root.Logs[i].Level = understanding
			root.Logs[i].LastReviewedAt = &reviewedAt
			root.Logs[i].NextReviewAt = &next
			root.Logs[i].ReviewCount++
		}
	}
}

// NewRoot returns a journal with one project "p1" and two logs created relative to now:
// "l1" (coding, level 2, tags go and concurrency, 10 days ago) and "l2" (reading, level 5, tag go, 1 day ago).
func NewRoot(now time.Time, opts ...RootOption) *journal.RootState {
	root := journal.NewRootState(migration.CurrentVersion)
	root.Projects = []journal.ProjectRecord{
		{ID: "p1", Name: "Go", Description: "learning go", CreatedAt: now.AddDate(0, -1, 0)},
	}
	root.Logs = []journal.LogRecord{
		{
			ID: "l1", ProjectID: "p1", Type: journal.LogTypeCoding, Title: "channels", Content: "select with default",
			Tags: []string{"go", "concurrency"}, Level: 2, Understanding: 2, CreatedAt: now.AddDate(0, 0, -10),
		},
		{
			ID: "l2", ProjectID: "p1", Type: journal.LogTypeReading, Title: "generics",
			Tags: []string{"go"}, Level: 5, Understanding: 5, CreatedAt: now.AddDate(0, 0, -1),
		},
	}
	root.Snippets = []journal.SnippetRecord{
		{ID: "s1", ProjectID: "p1", Title: "worker pool", Language: "go", Code: "for j := range jobs {}", CreatedAt: now, UpdatedAt: now},
	}
	for _, opt := range opts {
		opt(root)
	}
	return root
}

// WriteSnapshot stores root under key in the file storage rooted at dir.
func WriteSnapshot(t *testing.T, dir, key string, root *journal.RootState) {
	t.Helper()
	data, err := persistence.Encode(root)
	require.NoError(t, err)
	require.NoError(t, storage.NewFileStorage(dir).Write(context.Background(), key, data))
}

// ReadSnapshot decodes the snapshot stored under key in the file storage rooted at dir.
func ReadSnapshot(t *testing.T, dir, key string) *journal.RootState {
	t.Helper()
	data, err := storage.NewFileStorage(dir).Read(context.Background(), key)
	require.NoError(t, err)
	root, err := persistence.Decode(data)
	require.NoError(t, err)
	return root
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/devnote/internal/config"
)

func loadTestConfig(t *testing.T, path string) *config.Config {
	t.Helper()
	loader, err := config.NewConfigLoader(path)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg
}

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(tmpDir, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg := loadTestConfig(t, got)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "data"), cfg.Storage.Directory)
	assert.Equal(t, PrimaryKey, cfg.Storage.PrimaryKey)
	assert.Equal(t, BackupKey, cfg.Storage.BackupKey)
	assert.Equal(t, "UTC", cfg.Stats.Timezone)
}

func TestSetupTestConfigWithSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := loadTestConfig(t, SetupTestConfigWithSQLite(t, tmpDir))

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "devnote.db"), cfg.Database.Path)
}

func TestNewRoot(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	root := NewRoot(now, WithReviewedLog("l1", 4, now.AddDate(0, 0, -2)))

	require.Len(t, root.Logs, 2)
	assert.Equal(t, 4, root.Logs[0].Understanding)
	assert.Equal(t, 1, root.Logs[0].ReviewCount)
	require.NotNil(t, root.Logs[0].NextReviewAt)
	assert.Equal(t, now.AddDate(0, 0, 5), *root.Logs[0].NextReviewAt)
	assert.Nil(t, root.Logs[1].LastReviewedAt)
}

func TestWriteAndReadSnapshot(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	WriteSnapshot(t, dir, PrimaryKey, NewRoot(now))

	root := ReadSnapshot(t, dir, PrimaryKey)
	require.Len(t, root.Projects, 1)
	assert.Equal(t, "Go", root.Projects[0].Name)
	assert.Equal(t, "channels", root.Logs[0].Title)
	assert.True(t, now.Equal(root.Snippets[0].CreatedAt))
}

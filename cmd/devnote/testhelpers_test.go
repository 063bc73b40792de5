package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/devnote/internal/testutil"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// setupJournal writes a config using the file driver and stores the fixture journal as the primary snapshot.
// It returns the config path and the data directory.
func setupJournal(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	dataDir := filepath.Join(tmpDir, "data")
	testutil.WriteSnapshot(t, dataDir, testutil.PrimaryKey, testutil.NewRoot(time.Now()))
	return cfgPath, dataDir
}

// runCommand executes the root command with args against the config at cfgPath and returns its output.
func runCommand(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configFile = "" })

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

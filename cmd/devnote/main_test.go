package main

import (
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			// Verify the logger was set (no panic)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "devnote", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"project", "log", "snippet", "review", "stats", "report", "tags", "export", "import", "sync", "backup", "focus", "migrate"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	setConfigFile(t, setupBrokenConfigFile(t))

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestCommands_BrokenConfig(t *testing.T) {
	cfgPath := setupBrokenConfigFile(t)
	for _, args := range [][]string{
		{"project", "list"},
		{"log", "list"},
		{"stats"},
		{"review", "queue"},
		{"backup"},
		{"focus"},
		{"migrate", "journal"},
	} {
		_, err := runCommand(t, cfgPath, "", args...)
		assert.Error(t, err, args)
		assert.Contains(t, err.Error(), "configuration file found but could not be read", args)
	}
}

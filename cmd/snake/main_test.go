package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gridsnake/internal/config"
)

// withFlags restores the global flags after the test.
func withFlags(t *testing.T) {
	t.Helper()
	seed, db, cfg, diff, level, file := flagSeed, flagDBPath, flagConfig, flagDifficulty, flagLogLevel, flagLogFile
	t.Cleanup(func() {
		flagSeed, flagDBPath, flagConfig, flagDifficulty, flagLogLevel, flagLogFile = seed, db, cfg, diff, level, file
	})
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigAppliesDifficulty(t *testing.T) {
	withFlags(t)
	flagConfig = writeConfig(t, "grid:\n  size: 12\n")

	flagDifficulty = "fixed"
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Grid.Size)
	assert.Equal(t, 0, cfg.Speed.StepMS)

	flagDifficulty = "hard"
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Speed.BaseMS)

	flagDifficulty = "impossible"
	_, err = loadConfig()
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	withFlags(t)
	flagDifficulty = ""
	flagConfig = writeConfig(t, "grid:\n  size: 1\n")

	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestOpenStore(t *testing.T) {
	withFlags(t)

	flagDBPath = ""
	store, err := openStore()
	require.NoError(t, err)
	assert.Nil(t, store)

	flagDBPath = filepath.Join(t.TempDir(), "runs", "snake.db")
	store, err = openStore()
	require.NoError(t, err)
	require.NotNil(t, store)
	store.Close()
}

func TestNewLogger(t *testing.T) {
	withFlags(t)

	flagLogLevel = "loud"
	_, _, err := newLogger("snake", os.Stderr)
	assert.Error(t, err)

	flagLogLevel = "debug"
	flagLogFile = filepath.Join(t.TempDir(), "snake.log")
	logger, closeLog, err := newLogger("snake", os.Stderr)
	require.NoError(t, err)
	logger.Debug("hello", "n", 1)
	closeLog()

	data, err := os.ReadFile(flagLogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestSessionOptions(t *testing.T) {
	withFlags(t)
	flagSeed = 7

	cfg := config.DefaultSnakeConfig()
	cfg.Storage.HighScoreKey = "custom"
	opts := sessionOptions(cfg, nil, nil)

	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, "custom", opts.HighScoreKey)
	assert.Equal(t, 600*time.Millisecond, opts.Engine.BaseSpeed)
	assert.NoError(t, opts.Engine.Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultGameServer()

	assert.Equal(t, "localhost:8765", cfg.Addr())
	assert.Equal(t, 100, cfg.MaxConnections)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeoutDuration())
	assert.Equal(t, 5*time.Minute, cfg.CleanupIntervalDuration())
	assert.Equal(t, 10*time.Minute, cfg.StaleRoundTimeoutDuration())
	assert.Equal(t, 10, cfg.MaxBetsPerRound)
	assert.Equal(t, int64(1), cfg.MinBet)
	assert.Equal(t, int64(1000), cfg.MaxBet)
	assert.Equal(t, int64(1000), cfg.DefaultBalance)
	assert.Equal(t, 10, cfg.DefaultRoomCount)
	assert.Equal(t, 50, cfg.MaxRoomCapacity)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGameServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultGameServer(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameserver.yaml")
	data := []byte("host: 0.0.0.0\nport: 9000\nmax_bets_per_round: 5\nmax_bet: 500\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadGameServer(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 5, cfg.MaxBetsPerRound)
	assert.Equal(t, int64(500), cfg.MaxBet)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.MaxConnections)
	assert.Equal(t, int64(1), cfg.MinBet)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unclosed"), 0o644))

	_, err := LoadGameServer(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("MIN_BET", "5")
	t.Setenv("SESSION_TIMEOUT", "60")

	cfg, err := LoadGameServer(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.Addr())
	assert.Equal(t, int64(5), cfg.MinBet)
	assert.Equal(t, time.Minute, cfg.SessionTimeoutDuration())
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadGameServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8765, cfg.Port)
}

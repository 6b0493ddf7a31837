// Package config loads the game server configuration: built-in defaults,
// overridden by an optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// GameServer holds all configuration for the dice game server.
// Durations are in seconds in the file and the environment.
type GameServer struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`

	SessionTimeout  int `yaml:"session_timeout"`
	CleanupInterval int `yaml:"cleanup_interval"`

	MaxBetsPerRound   int   `yaml:"max_bets_per_round"`
	MinBet            int64 `yaml:"min_bet"`
	MaxBet            int64 `yaml:"max_bet"`
	DefaultBalance    int64 `yaml:"default_balance"`
	StaleRoundTimeout int   `yaml:"stale_round_timeout"`

	DefaultRoomCount int `yaml:"default_room_count"`
	MaxRoomCapacity  int `yaml:"max_room_capacity"`
}

// DefaultGameServer returns GameServer config with the stock defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		Host:              "localhost",
		Port:              8765,
		MaxConnections:    100,
		SessionTimeout:    1800,
		CleanupInterval:   300,
		MaxBetsPerRound:   10,
		MinBet:            1,
		MaxBet:            1000,
		DefaultBalance:    1000,
		StaleRoundTimeout: 600,
		DefaultRoomCount:  10,
		MaxRoomCapacity:   50,
	}
}

// LoadGameServer loads config from a YAML file, then applies environment
// overrides. A missing file is not an error; defaults are used.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *GameServer) applyEnv() {
	c.Host = getEnv("HOST", c.Host)
	c.Port = getEnvInt("PORT", c.Port)
	c.MaxConnections = getEnvInt("MAX_CONNECTIONS", c.MaxConnections)
	c.SessionTimeout = getEnvInt("SESSION_TIMEOUT", c.SessionTimeout)
	c.CleanupInterval = getEnvInt("CLEANUP_INTERVAL", c.CleanupInterval)
	c.MaxBetsPerRound = getEnvInt("MAX_BETS_PER_ROUND", c.MaxBetsPerRound)
	c.MinBet = getEnvInt64("MIN_BET", c.MinBet)
	c.MaxBet = getEnvInt64("MAX_BET", c.MaxBet)
	c.DefaultBalance = getEnvInt64("DEFAULT_BALANCE", c.DefaultBalance)
	c.StaleRoundTimeout = getEnvInt("STALE_ROUND_TIMEOUT", c.StaleRoundTimeout)
	c.DefaultRoomCount = getEnvInt("DEFAULT_ROOM_COUNT", c.DefaultRoomCount)
	c.MaxRoomCapacity = getEnvInt("MAX_ROOM_CAPACITY", c.MaxRoomCapacity)
}

// Addr returns the host:port the listener binds to.
func (c GameServer) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionTimeoutDuration returns the session inactivity timeout.
func (c GameServer) SessionTimeoutDuration() time.Duration {
	return time.Duration(c.SessionTimeout) * time.Second
}

// CleanupIntervalDuration returns the sweeper period.
func (c GameServer) CleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// StaleRoundTimeoutDuration returns the stale-round cutoff.
func (c GameServer) StaleRoundTimeoutDuration() time.Duration {
	return time.Duration(c.StaleRoundTimeout) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

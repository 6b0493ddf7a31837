package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dicehall/internal/config"
	"github.com/udisondev/dicehall/internal/game"
	"github.com/udisondev/dicehall/internal/server"
)

const ConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("dicehall game server starting")

	// A local .env feeds the environment overrides.
	godotenv.Load()

	cfgPath := ConfigPath
	if p := os.Getenv("DICEHALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded",
		"addr", cfg.Addr(),
		"max_connections", cfg.MaxConnections,
		"session_timeout", cfg.SessionTimeout,
		"cleanup_interval", cfg.CleanupInterval)

	state, err := game.NewState(game.Config{
		SessionTimeout:    cfg.SessionTimeoutDuration(),
		DefaultBalance:    cfg.DefaultBalance,
		RoomCount:         cfg.DefaultRoomCount,
		RoomCapacity:      cfg.MaxRoomCapacity,
		MaxBetsPerRound:   cfg.MaxBetsPerRound,
		MinBet:            cfg.MinBet,
		MaxBet:            cfg.MaxBet,
		StaleRoundTimeout: cfg.StaleRoundTimeoutDuration(),
		PasswordHashCost:  game.DefaultPasswordHashCost,
	})
	if err != nil {
		return fmt.Errorf("bootstrapping game state: %w", err)
	}
	slog.Info("game state initialized", "rooms", cfg.DefaultRoomCount)

	engine := game.NewEngine(state, game.CryptoRoller{})
	srv := server.New(cfg, state, engine)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.RunSweeper(gctx); err != nil {
			return fmt.Errorf("sweeper: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

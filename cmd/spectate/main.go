package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jwebster45206/adventure-console/internal/config"
	"github.com/jwebster45206/adventure-console/internal/logger"
	"github.com/jwebster45206/adventure-console/internal/services/events"
	"github.com/jwebster45206/adventure-console/pkg/gamestate"
)

// spectate follows every console session broadcasting to Redis and logs
// each event as it arrives.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Setup(cfg, os.Stdout)

	if cfg.RedisURL == "" {
		log.Error("REDIS_URL is required to spectate")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rdb.Close()
	}()

	log.Info("Spectating sessions", "channel_prefix", cfg.EventsChannel)
	err = events.Subscribe(ctx, rdb, cfg.EventsChannel, log, func(e gamestate.Event) {
		log.Info("Session event",
			"session_id", e.SessionID,
			"type", e.Type,
			"action", e.Action,
			"data", e.Data)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Subscription ended", "error", err)
		_ = rdb.Close()
		stop()
		os.Exit(1)
	}
	log.Info("Spectator exited")
}

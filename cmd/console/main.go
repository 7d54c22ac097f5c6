package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/adventure-console/internal/config"
	"github.com/jwebster45206/adventure-console/internal/logger"
	"github.com/jwebster45206/adventure-console/internal/services/events"
	"github.com/jwebster45206/adventure-console/pkg/api"
	"github.com/jwebster45206/adventure-console/pkg/gamestate"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run owns every resource so its deferred cleanup happens before main exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, logFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.APIKey, &http.Client{Timeout: cfg.APITimeout}, log)

	opts := gamestate.Options{ExitLookDelay: cfg.ExitLookDelay}
	if cfg.RedisURL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Event broadcasting disabled", "error", err)
		} else {
			broadcaster := events.NewBroadcaster(rdb, cfg.EventsChannel, log)
			go broadcaster.Run(ctx)
			// Runs before cancel, so queued events still publish.
			defer func() {
				shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
				defer stop()
				if err := broadcaster.Shutdown(shutdownCtx); err != nil {
					log.Warn("Queued events not published", "error", err)
				}
				_ = rdb.Close()
			}()
			opts.Observers = append(opts.Observers, broadcaster)
			log.Info("Broadcasting session events", "channel_prefix", cfg.EventsChannel)
		}
	}

	session := gamestate.NewSession(ctx, client, log, opts)
	log.Info("Starting adventure console", "api_base_url", cfg.APIBaseURL, "session_id", session.ID)

	p := tea.NewProgram(NewConsoleUI(ctx, session), tea.WithAltScreen())
	session.AddObserver(programObserver{program: p})
	session.Start()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// programObserver forwards session events into the BubbleTea event loop.
// Send blocks until the loop receives, and intents like ClearResponse
// notify from inside Update, so delivery happens on its own goroutine.
type programObserver struct {
	program *tea.Program
}

func (o programObserver) Notify(e gamestate.Event) {
	go o.program.Send(sessionEventMsg{event: e})
}

package gamestate

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jwebster45206/adventure-console/pkg/api"
	"github.com/jwebster45206/adventure-console/pkg/game"
)

// lookTask is one queued exit description request.
type lookTask struct {
	direction string
}

// annotator fetches a description for every exit of the current room, one
// request at a time with a fixed delay before each, and publishes the full
// map only when the pass completes. A different room supersedes a running pass;
// the old pass stops at its next check and never publishes.
type annotator struct {
	ctx    context.Context
	client api.Client
	delay  time.Duration
	sleep  SleepFunc
	logger *slog.Logger

	notify      func(Event)
	reportError func(Action, error)

	mu       sync.Mutex
	version  uint64
	started  bool
	room     *game.Room // room that started the current pass
	failed   bool       // current pass was aborted before publishing
	running  bool
	current  game.ExitDescriptions
	inFlight sync.WaitGroup
}

func newAnnotator(ctx context.Context, client api.Client, delay time.Duration, sleep SleepFunc, logger *slog.Logger, notify func(Event), reportError func(Action, error)) *annotator {
	return &annotator{
		ctx:         ctx,
		client:      client,
		delay:       delay,
		sleep:       sleep,
		logger:      logger.With("component", "exit_annotator"),
		notify:      notify,
		reportError: reportError,
		current:     game.ExitDescriptions{},
	}
}

// roomChanged starts a new pass unless the room is the same location the
// current pass started with. An aborted pass is always retried.
func (a *annotator) roomChanged(room *game.Room) {
	exits := slices.Clone(room.ExitList())

	a.mu.Lock()
	if a.started && !a.failed && game.SameLocation(a.room, room) {
		a.mu.Unlock()
		return
	}
	a.version++
	version := a.version
	a.started = true
	a.failed = false
	a.room = room.Clone()
	hadDescriptions := len(a.current) > 0
	a.current = game.ExitDescriptions{}

	if len(exits) == 0 {
		a.running = false
		a.mu.Unlock()
		a.logger.Debug("Room has no exits", "version", version)
		a.notify(Event{Type: EventExitsUpdated, Data: map[string]interface{}{"descriptions": map[string]string{}}})
		return
	}
	a.running = true
	a.inFlight.Add(1)
	a.mu.Unlock()

	if hadDescriptions {
		a.notify(Event{Type: EventExitsUpdated, Data: map[string]interface{}{"descriptions": map[string]string{}}})
	}

	a.logger.Debug("Starting exit annotation pass", "version", version, "exits", exits)
	go func() {
		defer a.inFlight.Done()
		a.pass(version, exits)
	}()
}

func (a *annotator) pass(version uint64, exits []string) {
	queue := make([]lookTask, 0, len(exits))
	for _, exit := range exits {
		queue = append(queue, lookTask{direction: exit})
	}

	descriptions := make(game.ExitDescriptions, len(exits))
	for len(queue) > 0 {
		task := queue[0]
		queue = queue[1:]

		if err := a.sleep(a.ctx, a.delay); err != nil {
			a.logger.Debug("Exit annotation pass stopped", "version", version, "error", err)
			a.finish(version)
			return
		}
		if a.stale(version) {
			a.logger.Debug("Exit annotation pass superseded", "version", version, "remaining", len(queue)+1)
			return
		}

		description, err := a.client.LookDirection(a.ctx, task.direction)
		if err != nil {
			if a.stale(version) {
				return
			}
			a.finish(version)
			a.reportError("", &CallError{Call: CallLookDirection, Err: err})
			return
		}
		descriptions[task.direction] = description
	}

	a.mu.Lock()
	if version != a.version {
		a.mu.Unlock()
		a.logger.Debug("Discarding superseded exit descriptions", "version", version)
		return
	}
	a.current = descriptions
	a.running = false
	a.mu.Unlock()

	a.logger.Debug("Published exit descriptions", "version", version, "count", len(descriptions))
	a.notify(Event{Type: EventExitsUpdated, Data: map[string]interface{}{"descriptions": maps.Clone(map[string]string(descriptions))}})
}

// finish marks the pass as aborted: no longer running and never published.
func (a *annotator) finish(version uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if version == a.version {
		a.running = false
		a.failed = true
	}
}

func (a *annotator) stale(version uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return version != a.version
}

// published returns a copy of the current map and whether a pass is running.
func (a *annotator) published() (game.ExitDescriptions, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.current), a.running
}

func (a *annotator) wait() {
	a.inFlight.Wait()
}

package gamestate

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-console/pkg/api"
	"github.com/jwebster45206/adventure-console/pkg/game"
	"github.com/jwebster45206/adventure-console/pkg/loader"
)

// DefaultExitLookDelay is the pause before each exit description request.
const DefaultExitLookDelay = 2 * time.Second

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options tune a Session. The zero value is usable.
type Options struct {
	ExitLookDelay time.Duration // Defaults to DefaultExitLookDelay; negative means no delay
	Sleep         SleepFunc     // Defaults to a timer-based sleep
	Observers     []Observer
}

// Session owns the client-side view of one player's game: the current
// room, inventory, exit descriptions, the last narration and the pending
// two-step use. The presentation layer reads Snapshot and calls intents.
type Session struct {
	ID     uuid.UUID
	client api.Client
	logger *slog.Logger

	room      *loader.Loader[*game.Room]
	inventory *loader.Loader[[]game.InventoryItem]
	exits     *annotator

	roomMu sync.Mutex // serializes room change handling

	mu         sync.Mutex
	response   *string
	pendingUse *string
	inFlight   map[Action]int
	observers  []Observer
}

// Snapshot is a read-only copy of session state for rendering.
type Snapshot struct {
	Room             *game.Room           // nil until the first room fetch succeeds
	Inventory        []game.InventoryItem // nil until the first inventory fetch succeeds
	ExitDescriptions game.ExitDescriptions
	Annotating       bool    // an exit description pass is running
	Response         *string // nil when there is nothing to show
	PendingUseTarget *string // the item picked for "use X on Y"
	InFlight         map[Action]int
}

// NewSession wires a session to the remote API. ctx bounds all background
// work; cancel it to stop fetches and annotation passes.
func NewSession(ctx context.Context, client api.Client, logger *slog.Logger, opts Options) *Session {
	id := uuid.New()
	logger = logger.With("session_id", id.String())

	delay := opts.ExitLookDelay
	if delay == 0 {
		delay = DefaultExitLookDelay
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	s := &Session{
		ID:        id,
		client:    client,
		logger:    logger,
		inFlight:  make(map[Action]int),
		observers: append([]Observer(nil), opts.Observers...),
	}

	s.room = loader.New[*game.Room](ctx, "room", client.LookRoom, logger)
	s.room.OnChange = func(*game.Room) { s.roomChanged() }
	s.room.OnError = func(err error) {
		s.reportError("", &CallError{Call: CallLookRoom, Err: err})
	}

	s.inventory = loader.New[[]game.InventoryItem](ctx, "inventory", client.Inventory, logger)
	s.inventory.OnChange = func(items []game.InventoryItem) {
		s.notify(Event{Type: EventInventoryUpdated, Data: map[string]interface{}{"count": len(items)}})
	}
	s.inventory.OnError = func(err error) {
		s.reportError("", &CallError{Call: CallInventory, Err: err})
	}

	s.exits = newAnnotator(ctx, client, delay, sleep, logger, s.notify, s.reportError)
	return s
}

// Start performs the initial room and inventory load.
func (s *Session) Start() {
	s.logger.Info("Starting game session")
	s.room.Trigger()
	s.inventory.Trigger()
}

// AddObserver registers o for all future events.
func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// RefreshRoom re-fetches the current room in the background.
func (s *Session) RefreshRoom() {
	s.room.Trigger()
}

// RefreshInventory re-fetches the inventory in the background.
func (s *Session) RefreshInventory() {
	s.inventory.Trigger()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	var snap Snapshot

	if room, ok := s.room.Value(); ok {
		snap.Room = room.Clone()
	}
	if items, ok := s.inventory.Value(); ok {
		snap.Inventory = append(make([]game.InventoryItem, 0, len(items)), items...)
	}
	snap.ExitDescriptions, snap.Annotating = s.exits.published()

	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Response = copyString(s.response)
	snap.PendingUseTarget = copyString(s.pendingUse)
	snap.InFlight = maps.Clone(s.inFlight)
	return snap
}

// Wait blocks until background fetches and annotation passes finish.
// Actions are synchronous and are not tracked here.
func (s *Session) Wait() {
	s.room.Wait()
	s.inventory.Wait()
	s.exits.wait()
}

func (s *Session) roomChanged() {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()

	room, _ := s.room.Value()
	s.notify(Event{Type: EventRoomUpdated, Data: map[string]interface{}{"exits": room.ExitList()}})
	s.exits.roomChanged(room)
}

func (s *Session) notify(e Event) {
	e.SessionID = s.ID
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.mu.Lock()
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.Notify(e)
	}
}

func (s *Session) reportError(action Action, err error) {
	s.logger.Error("Remote call failed", "action", action, "error", err)
	s.notify(Event{
		Type:   EventError,
		Action: action,
		Err:    err,
		Data:   map[string]interface{}{"error": err.Error()},
	})
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package gamestate

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what changed in a session.
type EventType string

const (
	EventRoomUpdated       EventType = "room.updated"
	EventInventoryUpdated  EventType = "inventory.updated"
	EventExitsUpdated      EventType = "exits.updated"
	EventResponseUpdated   EventType = "response.updated"
	EventPendingUseUpdated EventType = "pending_use.updated"
	EventActionStarted     EventType = "action.started"
	EventActionFinished    EventType = "action.finished"
	EventError             EventType = "error"
)

// Event is delivered to observers after session state changes.
// Observers should treat it as a hint and read Snapshot for current state.
type Event struct {
	Type      EventType              `json:"type"`
	SessionID uuid.UUID              `json:"session_id"`
	Action    Action                 `json:"action,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Err       error                  `json:"-"`
	Time      time.Time              `json:"time"`
}

// Observer receives session events. Notify is called without any session
// lock held, but it must not block for long: the caller is a fetch or
// action goroutine.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) {
	f(e)
}

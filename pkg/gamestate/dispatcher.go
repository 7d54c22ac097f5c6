package gamestate

import (
	"context"
)

// Action names a player intent that goes to the server.
type Action string

const (
	ActionMove       Action = "move"
	ActionInspect    Action = "inspect"
	ActionGet        Action = "get"
	ActionUseOnSelf  Action = "use_on_self"
	ActionUseOnOther Action = "use_on_other"
	ActionDeathWarp  Action = "death_warp"
	ActionWriteNote  Action = "write_note"
)

type refresh uint8

const (
	refreshRoom refresh = 1 << iota
	refreshInventory
)

// refreshPolicy lists what must be re-fetched after each successful action.
var refreshPolicy = map[Action]refresh{
	ActionMove:       refreshRoom,
	ActionInspect:    0,
	ActionGet:        refreshRoom | refreshInventory,
	ActionUseOnSelf:  refreshInventory,
	ActionUseOnOther: refreshInventory | refreshRoom,
	ActionDeathWarp:  refreshInventory | refreshRoom,
	ActionWriteNote:  0,
}

// Move walks through an exit and then reloads the room.
func (s *Session) Move(ctx context.Context, direction string) (string, error) {
	return s.dispatch(ctx, ActionMove, CallMove, func(ctx context.Context) (string, error) {
		return s.client.Move(ctx, direction)
	})
}

// Inspect shows the description of a doodad or inventory item.
func (s *Session) Inspect(ctx context.Context, slug string) (string, error) {
	return s.dispatch(ctx, ActionInspect, CallInspect, func(ctx context.Context) (string, error) {
		return s.client.Inspect(ctx, slug)
	})
}

// Get picks a doodad up, so both the room and the inventory change.
func (s *Session) Get(ctx context.Context, slug string) (string, error) {
	return s.dispatch(ctx, ActionGet, CallGet, func(ctx context.Context) (string, error) {
		return s.client.Get(ctx, slug)
	})
}

func (s *Session) UseOnSelf(ctx context.Context, slug string) (string, error) {
	return s.dispatch(ctx, ActionUseOnSelf, CallUseOnSelf, func(ctx context.Context) (string, error) {
		return s.client.UseOnSelf(ctx, slug)
	})
}

func (s *Session) UseOnOther(ctx context.Context, slug, otherSlug string) (string, error) {
	return s.dispatch(ctx, ActionUseOnOther, CallUseOnOther, func(ctx context.Context) (string, error) {
		return s.client.UseOnOther(ctx, slug, otherSlug)
	})
}

// DeathWarp kills the character, returning them to their origin.
func (s *Session) DeathWarp(ctx context.Context) (string, error) {
	return s.dispatch(ctx, ActionDeathWarp, CallOrigin, s.client.Origin)
}

// WriteNote leaves a note in the current room. Only non-empty narration
// replaces the response.
func (s *Session) WriteNote(ctx context.Context, text string) (string, error) {
	return s.dispatch(ctx, ActionWriteNote, CallWriteNote, func(ctx context.Context) (string, error) {
		return s.client.WriteNote(ctx, text)
	})
}

// ClearResponse dismisses the current narration. It never calls the server.
func (s *Session) ClearResponse() {
	s.mu.Lock()
	changed := s.response != nil
	s.response = nil
	s.mu.Unlock()

	if changed {
		s.notify(Event{Type: EventResponseUpdated, Data: map[string]interface{}{"response": nil}})
	}
}

// SelectUseTool picks the item to use in a "use X on Y" interaction.
func (s *Session) SelectUseTool(slug string) {
	s.setPendingUse(&slug)
}

// CancelUse abandons a "use X on Y" interaction without calling the server.
func (s *Session) CancelUse() {
	s.setPendingUse(nil)
}

// ChooseUseTarget completes a "use X on Y" interaction with otherSlug as Y.
// The selected tool is cleared whether or not the call succeeds.
func (s *Session) ChooseUseTarget(ctx context.Context, otherSlug string) (string, error) {
	s.mu.Lock()
	tool := s.pendingUse
	s.pendingUse = nil
	s.mu.Unlock()

	if tool == nil {
		return "", ErrNoPendingUse
	}
	s.notify(Event{Type: EventPendingUseUpdated, Data: map[string]interface{}{"slug": nil}})

	return s.UseOnOther(ctx, *tool, otherSlug)
}

func (s *Session) setPendingUse(slug *string) {
	s.mu.Lock()
	s.pendingUse = slug
	s.mu.Unlock()

	var data interface{}
	if slug != nil {
		data = *slug
	}
	s.notify(Event{Type: EventPendingUseUpdated, Data: map[string]interface{}{"slug": data}})
}

// dispatch runs one action: a single remote call, then the narration
// update, then the action's refreshes. Refreshes run in the background and
// are skipped when the call fails.
func (s *Session) dispatch(ctx context.Context, action Action, call string, fn func(context.Context) (string, error)) (string, error) {
	s.begin(action)
	defer s.end(action)

	logger := s.logger.With("action", action)
	logger.Debug("Dispatching action", "call", call)

	narration, err := fn(ctx)
	if err != nil {
		callErr := &CallError{Call: call, Err: err}
		s.reportError(action, callErr)
		return "", callErr
	}

	if action != ActionWriteNote || narration != "" {
		s.setResponse(narration)
	}

	policy := refreshPolicy[action]
	if policy&refreshRoom != 0 {
		s.room.Trigger()
	}
	if policy&refreshInventory != 0 {
		s.inventory.Trigger()
	}

	logger.Debug("Action completed", "narration_length", len(narration))
	return narration, nil
}

func (s *Session) setResponse(narration string) {
	s.mu.Lock()
	s.response = &narration
	s.mu.Unlock()

	s.notify(Event{Type: EventResponseUpdated, Data: map[string]interface{}{"response": narration}})
}

func (s *Session) begin(action Action) {
	s.mu.Lock()
	s.inFlight[action]++
	s.mu.Unlock()

	s.notify(Event{Type: EventActionStarted, Action: action})
}

func (s *Session) end(action Action) {
	s.mu.Lock()
	s.inFlight[action]--
	if s.inFlight[action] <= 0 {
		delete(s.inFlight, action)
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventActionFinished, Action: action})
}

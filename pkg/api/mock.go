package api

import (
	"context"
	"sync"

	"github.com/jwebster45206/adventure-console/pkg/game"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	LookRoomFunc      func(ctx context.Context) (*game.Room, error)
	MoveFunc          func(ctx context.Context, direction string) (string, error)
	LookDirectionFunc func(ctx context.Context, direction string) (string, error)
	InventoryFunc     func(ctx context.Context) ([]game.InventoryItem, error)
	OriginFunc        func(ctx context.Context) (string, error)
	InspectFunc       func(ctx context.Context, slug string) (string, error)
	GetFunc           func(ctx context.Context, slug string) (string, error)
	UseOnSelfFunc     func(ctx context.Context, slug string) (string, error)
	UseOnOtherFunc    func(ctx context.Context, slug, otherSlug string) (string, error)
	WriteNoteFunc     func(ctx context.Context, text string) (string, error)

	// Track calls for testing
	LookRoomCalls      int
	MoveCalls          []string
	LookDirectionCalls []string
	InventoryCalls     int
	OriginCalls        int
	InspectCalls       []string
	GetCalls           []string
	UseOnSelfCalls     []string
	UseOnOtherCalls    []UseOnOtherCall
	WriteNoteCalls     []string

	mu sync.Mutex // protects the call tracking above
}

type UseOnOtherCall struct {
	Slug      string
	OtherSlug string
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Client interface
var _ Client = (*MockClient)(nil)

// The Func hooks are invoked without holding mu so they may block.

func (m *MockClient) LookRoom(ctx context.Context) (*game.Room, error) {
	m.mu.Lock()
	m.LookRoomCalls++
	m.mu.Unlock()

	if m.LookRoomFunc != nil {
		return m.LookRoomFunc(ctx)
	}
	return &game.Room{}, nil
}

func (m *MockClient) Move(ctx context.Context, direction string) (string, error) {
	m.mu.Lock()
	m.MoveCalls = append(m.MoveCalls, direction)
	m.mu.Unlock()

	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, direction)
	}
	return "You walk " + direction + ".", nil
}

func (m *MockClient) LookDirection(ctx context.Context, direction string) (string, error) {
	m.mu.Lock()
	m.LookDirectionCalls = append(m.LookDirectionCalls, direction)
	m.mu.Unlock()

	if m.LookDirectionFunc != nil {
		return m.LookDirectionFunc(ctx, direction)
	}
	return "You see nothing special to the " + direction + ".", nil
}

func (m *MockClient) Inventory(ctx context.Context) ([]game.InventoryItem, error) {
	m.mu.Lock()
	m.InventoryCalls++
	m.mu.Unlock()

	if m.InventoryFunc != nil {
		return m.InventoryFunc(ctx)
	}
	return []game.InventoryItem{}, nil
}

func (m *MockClient) Origin(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.OriginCalls++
	m.mu.Unlock()

	if m.OriginFunc != nil {
		return m.OriginFunc(ctx)
	}
	return "You die, and wake somewhere familiar.", nil
}

func (m *MockClient) Inspect(ctx context.Context, slug string) (string, error) {
	m.mu.Lock()
	m.InspectCalls = append(m.InspectCalls, slug)
	m.mu.Unlock()

	if m.InspectFunc != nil {
		return m.InspectFunc(ctx, slug)
	}
	return "It is a " + slug + ".", nil
}

func (m *MockClient) Get(ctx context.Context, slug string) (string, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, slug)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, slug)
	}
	return "You pick up the " + slug + ".", nil
}

func (m *MockClient) UseOnSelf(ctx context.Context, slug string) (string, error) {
	m.mu.Lock()
	m.UseOnSelfCalls = append(m.UseOnSelfCalls, slug)
	m.mu.Unlock()

	if m.UseOnSelfFunc != nil {
		return m.UseOnSelfFunc(ctx, slug)
	}
	return "You use the " + slug + ".", nil
}

func (m *MockClient) UseOnOther(ctx context.Context, slug, otherSlug string) (string, error) {
	m.mu.Lock()
	m.UseOnOtherCalls = append(m.UseOnOtherCalls, UseOnOtherCall{Slug: slug, OtherSlug: otherSlug})
	m.mu.Unlock()

	if m.UseOnOtherFunc != nil {
		return m.UseOnOtherFunc(ctx, slug, otherSlug)
	}
	return "You use the " + slug + " on the " + otherSlug + ".", nil
}

func (m *MockClient) WriteNote(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.WriteNoteCalls = append(m.WriteNoteCalls, text)
	m.mu.Unlock()

	if m.WriteNoteFunc != nil {
		return m.WriteNoteFunc(ctx, text)
	}
	return "", nil
}

// CallCounts returns the number of calls per method, safe for concurrent use.
func (m *MockClient) CallCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]int{
		"LookRoom":      m.LookRoomCalls,
		"Move":          len(m.MoveCalls),
		"LookDirection": len(m.LookDirectionCalls),
		"Inventory":     m.InventoryCalls,
		"Origin":        m.OriginCalls,
		"Inspect":       len(m.InspectCalls),
		"Get":           len(m.GetCalls),
		"UseOnSelf":     len(m.UseOnSelfCalls),
		"UseOnOther":    len(m.UseOnOtherCalls),
		"WriteNote":     len(m.WriteNoteCalls),
	}
}

// LookedDirections returns a copy of the directions passed to LookDirection.
func (m *MockClient) LookedDirections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.LookDirectionCalls...)
}

// Reset clears all call tracking
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookRoomCalls = 0
	m.MoveCalls = nil
	m.LookDirectionCalls = nil
	m.InventoryCalls = 0
	m.OriginCalls = 0
	m.InspectCalls = nil
	m.GetCalls = nil
	m.UseOnSelfCalls = nil
	m.UseOnOtherCalls = nil
	m.WriteNoteCalls = nil
}

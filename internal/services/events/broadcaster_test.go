package events

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-console/pkg/api"
	"github.com/jwebster45206/adventure-console/pkg/game"
	"github.com/jwebster45206/adventure-console/pkg/gamestate"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("Failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type collector struct {
	mu     sync.Mutex
	events []gamestate.Event
}

func (c *collector) add(e gamestate.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) types() []gamestate.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []gamestate.EventType
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func (c *collector) first() gamestate.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[0]
}

// subscribe starts a subscriber and waits until Redis has registered it.
func subscribe(t *testing.T, rdb *redis.Client, mr *miniredis.Miniredis, prefix string) *collector {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := &collector{}
	go func() {
		_ = Subscribe(ctx, rdb, prefix, testLogger(), c.add)
	}()

	require.Eventually(t, func() bool {
		return mr.PubSubNumPat() == 1
	}, 2*time.Second, 5*time.Millisecond)
	return c
}

func TestBroadcaster_PublishAndSubscribe(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	c := subscribe(t, rdb, mr, "test-events")

	b := NewBroadcaster(rdb, "test-events", testLogger())
	sessionID := uuid.New()
	event := gamestate.Event{
		Type:      gamestate.EventResponseUpdated,
		SessionID: sessionID,
		Action:    gamestate.ActionInspect,
		Data:      map[string]interface{}{"response": "A rusty key."},
		Time:      time.Now(),
	}

	require.NoError(t, b.Publish(context.Background(), event))

	require.Eventually(t, func() bool {
		return len(c.types()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	got := c.first()
	assert.Equal(t, gamestate.EventResponseUpdated, got.Type)
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, gamestate.ActionInspect, got.Action)
	assert.Equal(t, "A rusty key.", got.Data["response"])
}

func TestBroadcaster_Channel(t *testing.T) {
	b := NewBroadcaster(nil, "adventure:events", testLogger())
	id := uuid.MustParse("6f1c1d52-3f4e-4c55-9a2e-1c2b3d4e5f60")
	assert.Equal(t, "adventure:events:6f1c1d52-3f4e-4c55-9a2e-1c2b3d4e5f60", b.Channel(id))
}

func TestBroadcaster_ObservesSession(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	c := subscribe(t, rdb, mr, "adventure:events")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(rdb, "adventure:events", testLogger())
	go b.Run(ctx)

	client := api.NewMockClient()
	client.LookRoomFunc = func(ctx context.Context) (*game.Room, error) {
		return &game.Room{Description: "A crypt.", Exits: []string{"up"}}, nil
	}

	s := gamestate.NewSession(ctx, client, testLogger(), gamestate.Options{
		ExitLookDelay: -1,
		Observers:     []gamestate.Observer{b},
	})
	s.Start()
	s.Wait()

	_, err := s.Inspect(ctx, "skull")
	require.NoError(t, err)

	require.NoError(t, b.Shutdown(context.Background()))

	require.Eventually(t, func() bool {
		types := c.types()
		return contains(types, gamestate.EventRoomUpdated) &&
			contains(types, gamestate.EventExitsUpdated) &&
			contains(types, gamestate.EventResponseUpdated)
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, s.ID, c.first().SessionID)
}

func TestBroadcaster_NotifyNeverBlocks(t *testing.T) {
	b := NewBroadcaster(nil, "adventure:events", testLogger())

	// nothing drains the queue, so the overflow must be dropped
	for i := 0; i < queueSize+10; i++ {
		b.Notify(gamestate.Event{Type: gamestate.EventActionStarted})
	}
	assert.Len(t, b.queue, queueSize)

	b.Close()
	b.Close() // idempotent
	b.Notify(gamestate.Event{Type: gamestate.EventActionFinished})
	assert.Len(t, b.queue, queueSize)
}

func TestBroadcaster_ShutdownPublishesQueuedEvents(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	c := subscribe(t, rdb, mr, "adventure:events")

	publisher, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)

	b := NewBroadcaster(publisher, "adventure:events", testLogger())
	sessionID := uuid.New()
	for i := 0; i < 5; i++ {
		b.Notify(gamestate.Event{Type: gamestate.EventActionStarted, SessionID: sessionID})
	}

	go b.Run(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, b.Shutdown(ctx))

	// the Redis client is safe to close once Shutdown has returned
	require.NoError(t, publisher.Close())

	require.Eventually(t, func() bool {
		return len(c.types()) == 5
	}, 2*time.Second, 5*time.Millisecond)
}

func TestBroadcaster_ShutdownWithoutRunTimesOut(t *testing.T) {
	b := NewBroadcaster(nil, "adventure:events", testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Shutdown(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse redis URL")
}

func contains(types []gamestate.EventType, want gamestate.EventType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

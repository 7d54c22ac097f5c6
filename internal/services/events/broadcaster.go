package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-console/pkg/gamestate"
	"github.com/redis/go-redis/v9"
)

const (
	queueSize      = 64
	publishTimeout = 2 * time.Second
)

// Broadcaster publishes session events to Redis Pub/Sub so other tools can
// follow a player's session. It implements gamestate.Observer; Notify only
// enqueues, and Run does the publishing.
type Broadcaster struct {
	redisClient *redis.Client
	prefix      string
	logger      *slog.Logger

	queue     chan gamestate.Event
	closeOnce sync.Once
	done      chan struct{}
	stopOnce  sync.Once
	stopped   chan struct{} // closed when Run returns
}

// Ensure Broadcaster implements gamestate.Observer
var _ gamestate.Observer = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, prefix string, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		prefix:      prefix,
		logger:      logger.With("component", "broadcaster"),
		queue:       make(chan gamestate.Event, queueSize),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Notify queues an event for publishing. Events are dropped, with a
// warning, when the queue is full.
func (b *Broadcaster) Notify(e gamestate.Event) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.queue <- e:
	default:
		b.logger.Warn("Event queue full, dropping event", "event_type", e.Type)
	}
}

// Run publishes queued events until ctx is done or Close is called.
func (b *Broadcaster) Run(ctx context.Context) {
	defer b.stopOnce.Do(func() { close(b.stopped) })

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			b.drain(ctx)
			return
		case e := <-b.queue:
			_ = b.Publish(ctx, e)
		}
	}
}

func (b *Broadcaster) drain(ctx context.Context) {
	for {
		select {
		case e := <-b.queue:
			_ = b.Publish(ctx, e)
		default:
			return
		}
	}
}

// Close stops accepting events. Run publishes what is already queued and returns.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Shutdown closes the broadcaster and waits, bounded by ctx, for Run to
// publish what is already queued. Close the Redis client only after it returns.
func (b *Broadcaster) Shutdown(ctx context.Context) error {
	b.Close()
	select {
	case <-b.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("broadcaster shutdown: %w", ctx.Err())
	}
}

// Publish sends one event to its session channel.
func (b *Broadcaster) Publish(ctx context.Context, e gamestate.Event) error {
	channel := b.Channel(e.SessionID)

	data, err := json.Marshal(e)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", e.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published", "channel", channel, "event_type", e.Type)
	return nil
}

// Channel is the Pub/Sub channel for one session.
func (b *Broadcaster) Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", b.prefix, sessionID.String())
}

// Subscribe delivers events from every session to handle until ctx is done.
func Subscribe(ctx context.Context, redisClient *redis.Client, prefix string, logger *slog.Logger, handle func(gamestate.Event)) error {
	pubsub := redisClient.PSubscribe(ctx, prefix+":*")
	defer func() {
		_ = pubsub.Close()
	}()

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e gamestate.Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				logger.Warn("Ignoring malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			handle(e)
		}
	}
}

package loader

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc performs one remote fetch.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader wraps a single remote fetch behind a fire-and-forget Trigger and
// exposes the last applied result. Only the most recently triggered fetch
// may update the value; anything older that completes later is discarded.
type Loader[T any] struct {
	ctx    context.Context
	fetch  FetchFunc[T]
	logger *slog.Logger

	// OnChange is called with each newly applied value. Calls from
	// back-to-back fetches may overlap; use Value for the latest.
	OnChange func(T)
	// OnError is called when the current fetch fails. The value is left as it was.
	OnError func(error)

	mu       sync.Mutex
	version  uint64 // last issued
	value    T
	hasValue bool
	inFlight sync.WaitGroup
}

// New creates a loader. ctx bounds every fetch it starts.
func New[T any](ctx context.Context, name string, fetch FetchFunc[T], logger *slog.Logger) *Loader[T] {
	return &Loader[T]{
		ctx:    ctx,
		fetch:  fetch,
		logger: logger.With("loader", name),
	}
}

// Trigger starts a fetch, superseding any fetch already in flight.
func (l *Loader[T]) Trigger() {
	l.mu.Lock()
	l.version++
	version := l.version
	l.mu.Unlock()

	l.inFlight.Add(1)
	go func() {
		defer l.inFlight.Done()
		l.run(version)
	}()
}

func (l *Loader[T]) run(version uint64) {
	value, err := l.fetch(l.ctx)

	l.mu.Lock()
	if version != l.version {
		current := l.version
		l.mu.Unlock()
		l.logger.Debug("Discarding stale fetch", "version", version, "current", current, "failed", err != nil)
		return
	}
	if err != nil {
		l.mu.Unlock()
		l.logger.Warn("Fetch failed, keeping previous value", "version", version, "error", err)
		if l.OnError != nil {
			l.OnError(err)
		}
		return
	}
	l.value = value
	l.hasValue = true
	l.mu.Unlock()

	l.logger.Debug("Fetch applied", "version", version)
	if l.OnChange != nil {
		l.OnChange(value)
	}
}

// Value returns the last applied result and whether there is one yet.
func (l *Loader[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.hasValue
}

// Version returns the number of fetches triggered so far.
func (l *Loader[T]) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Wait blocks until every triggered fetch has finished.
func (l *Loader[T]) Wait() {
	l.inFlight.Wait()
}

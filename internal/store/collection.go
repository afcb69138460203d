package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/metrics"
	"github.com/ccumaco/ai-frontend/internal/status"
	"go.uber.org/zap"
)

// OpError is returned by a rejected dispatch. Message is the text recorded
// in the collection's Error field.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string { return e.Message }
func (e *OpError) Unwrap() error { return e.Err }

// Change is the payload of a collection change event.
type Change struct {
	Collection string
	Action     ActionKind
}

// Collection holds one list-valued resource and its request lifecycle flags.
// All mutation goes through Dispatch.
type Collection[T any] struct {
	name      string
	eventKind string

	mu    sync.RWMutex
	state State[T]
	epoch uint64 // bumped by Clear

	bus    *bus.Bus
	logger *zap.Logger
}

// NewCollection creates an empty collection. Changes are published on b
// under eventKind.
func NewCollection[T any](name, eventKind string, b *bus.Bus, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{
		name:      name,
		eventKind: eventKind,
		state:     State[T]{Data: []T{}},
		bus:       b,
		logger:    logger.With(zap.String("collection", name)),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Dispatch applies a through Reduce and publishes the change.
func (c *Collection[T]) Dispatch(a Action[T]) State[T] {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	if a.Kind == Clear {
		c.epoch++
	}
	next := c.state
	c.mu.Unlock()

	c.bus.StoreChanged(c.eventKind, Change{Collection: c.name, Action: a.Kind})
	return copyState(next)
}

// begin dispatches a pending action and returns the epoch it ran in.
func (c *Collection[T]) begin(a Action[T]) uint64 {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	epoch := c.epoch
	c.mu.Unlock()

	c.bus.StoreChanged(c.eventKind, Change{Collection: c.name, Action: a.Kind})
	return epoch
}

// settle applies a only if the collection was not cleared since epoch.
func (c *Collection[T]) settle(epoch uint64, a Action[T]) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	c.state = Reduce(c.state, a)
	c.mu.Unlock()

	c.bus.StoreChanged(c.eventKind, Change{Collection: c.name, Action: a.Kind})
}

// stale reports whether a result must be dropped: the caller went away or
// the collection was cleared while the request was in flight.
func (c *Collection[T]) stale(ctx context.Context, epoch uint64) bool {
	if errors.Is(ctx.Err(), context.Canceled) {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch != epoch
}

func (c *Collection[T]) settleMachine(m *status.Machine, err error) {
	if serr := m.Settle(err); serr != nil {
		c.logger.Debug("machine settle rejected", zap.String("op", m.Op()), zap.Error(serr))
	}
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyState(c.state)
}

// Clear resets the collection to empty. Used on scope teardown.
func (c *Collection[T]) Clear() {
	c.Dispatch(Action[T]{Kind: Clear})
}

// Replace swaps the list wholesale without a request.
func (c *Collection[T]) Replace(data []T) {
	c.Dispatch(Action[T]{Kind: Replace, Data: data})
}

// DismissError clears a visible error banner.
func (c *Collection[T]) DismissError() {
	c.Dispatch(Action[T]{Kind: DismissError})
}

func copyState[T any](s State[T]) State[T] {
	s.Data = slices.Clone(s.Data)
	if s.Data == nil {
		s.Data = []T{}
	}
	return s
}

// runFetch drives fetch/pending -> fulfilled|rejected for one request.
// A result that resolves after its caller was cancelled, or after the
// collection was cleared, leaves the state untouched.
func runFetch[T any](ctx context.Context, c *Collection[T], fallback string, fn func(context.Context) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := status.NewMachine(c.name+"/fetchAll", c.bus)
	if err := m.Begin(); err != nil {
		c.logger.Debug("machine begin rejected", zap.String("op", m.Op()), zap.Error(err))
	}
	epoch := c.begin(Action[T]{Kind: FetchPending})

	data, err := fn(ctx)
	metrics.RecordDispatch(c.name, "fetchAll", err)
	defer func() { c.settleMachine(m, err) }()

	if c.stale(ctx, epoch) {
		c.logger.Debug("fetch result dropped", zap.Error(err))
		return err
	}
	if err != nil {
		msg := api.ErrorMessage(err, fallback)
		c.logger.Warn("fetch rejected", zap.String("error", msg))
		c.settle(epoch, Action[T]{Kind: FetchRejected, Error: msg})
		return &OpError{Op: m.Op(), Message: msg, Err: err}
	}
	c.logger.Debug("fetch fulfilled", zap.Int("count", len(data)))
	c.settle(epoch, Action[T]{Kind: FetchFulfilled, Data: data})
	return nil
}

// runCreate drives create/pending -> fulfilled|rejected for one request.
// Late results are dropped the same way as in runFetch; the created entity
// is still returned to the caller.
func runCreate[T any](ctx context.Context, c *Collection[T], fallback string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m := status.NewMachine(c.name+"/createOne", c.bus)
	if err := m.Begin(); err != nil {
		c.logger.Debug("machine begin rejected", zap.String("op", m.Op()), zap.Error(err))
	}
	epoch := c.begin(Action[T]{Kind: CreatePending})

	item, err := fn(ctx)
	metrics.RecordDispatch(c.name, "createOne", err)
	defer func() { c.settleMachine(m, err) }()

	if c.stale(ctx, epoch) {
		c.logger.Debug("create result dropped", zap.Error(err))
		if err != nil {
			return zero, err
		}
		return item, nil
	}
	if err != nil {
		msg := api.ErrorMessage(err, fallback)
		c.logger.Warn("create rejected", zap.String("error", msg))
		c.settle(epoch, Action[T]{Kind: CreateRejected, Error: msg})
		return zero, &OpError{Op: m.Op(), Message: msg, Err: err}
	}
	c.settle(epoch, Action[T]{Kind: CreateFulfilled, Item: item})
	return item, nil
}

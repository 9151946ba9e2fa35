package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	ModeDatabase = "database"
	ModeDegraded = "degraded"
	ModeMemory   = "memory"
)

// Status is shared by every FallbackRepository of a process and tells the
// health endpoint where data is currently served from.
type Status struct {
	memoryOnly bool
	degraded   atomic.Bool

	mu        sync.Mutex
	lastError string
	lastAt    time.Time
}

// NewStatus creates a Status. memoryOnly means no database was configured.
func NewStatus(memoryOnly bool) *Status {
	return &Status{memoryOnly: memoryOnly}
}

// Mode returns ModeDatabase, ModeDegraded or ModeMemory.
func (s *Status) Mode() string {
	switch {
	case s.memoryOnly:
		return ModeMemory
	case s.degraded.Load():
		return ModeDegraded
	default:
		return ModeDatabase
	}
}

// LastError returns the most recent primary failure, if any.
func (s *Status) LastError() (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError, s.lastAt
}

func (s *Status) record(err error) {
	s.degraded.Store(true)
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastAt = time.Now()
	s.mu.Unlock()
}

// FallbackRepository serves from the primary repository and switches to the
// secondary one for any call whose primary attempt fails with a backend error.
// Writes served by the secondary are not replayed to the primary.
type FallbackRepository[T any] struct {
	name      string
	primary   Repository[T]
	secondary Repository[T]
	status    *Status
	logger    *zap.Logger
}

// NewFallbackRepository wires primary and secondary. A nil primary means the
// secondary answers every call.
func NewFallbackRepository[T any](name string, primary, secondary Repository[T], status *Status, logger *zap.Logger) *FallbackRepository[T] {
	if status == nil {
		status = NewStatus(primary == nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackRepository[T]{
		name:      name,
		primary:   primary,
		secondary: secondary,
		status:    status,
		logger:    logger,
	}
}

// Secondary exposes the in-memory side, used for bootstrap seeding.
func (r *FallbackRepository[T]) Secondary() Repository[T] {
	return r.secondary
}

type listResult[T any] struct {
	items []T
	total int64
}

func (r *FallbackRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	res, err := run(ctx, r, "list", func(repo Repository[T]) (listResult[T], error) {
		items, total, err := repo.List(ctx, opts)
		return listResult[T]{items: items, total: total}, err
	})
	return res.items, res.total, err
}

func (r *FallbackRepository[T]) Get(ctx context.Context, id uint) (*T, error) {
	return run(ctx, r, "get", func(repo Repository[T]) (*T, error) {
		return repo.Get(ctx, id)
	})
}

func (r *FallbackRepository[T]) FindOne(ctx context.Context, column, value string) (*T, error) {
	return run(ctx, r, "find", func(repo Repository[T]) (*T, error) {
		return repo.FindOne(ctx, column, value)
	})
}

func (r *FallbackRepository[T]) Create(ctx context.Context, item *T) error {
	_, err := run(ctx, r, "create", func(repo Repository[T]) (struct{}, error) {
		return struct{}{}, repo.Create(ctx, item)
	})
	return err
}

func (r *FallbackRepository[T]) Update(ctx context.Context, item *T) error {
	_, err := run(ctx, r, "update", func(repo Repository[T]) (struct{}, error) {
		return struct{}{}, repo.Update(ctx, item)
	})
	return err
}

func (r *FallbackRepository[T]) Delete(ctx context.Context, id uint) error {
	_, err := run(ctx, r, "delete", func(repo Repository[T]) (struct{}, error) {
		return struct{}{}, repo.Delete(ctx, id)
	})
	return err
}

func (r *FallbackRepository[T]) Reorder(ctx context.Context, ids []uint) error {
	_, err := run(ctx, r, "reorder", func(repo Repository[T]) (struct{}, error) {
		return struct{}{}, repo.Reorder(ctx, ids)
	})
	return err
}

func run[T any, R any](ctx context.Context, r *FallbackRepository[T], op string, call func(Repository[T]) (R, error)) (R, error) {
	if r.primary == nil {
		return call(r.secondary)
	}

	result, err := call(r.primary)
	if err == nil || IsDomainError(err) {
		return result, err
	}
	// The caller went away; memory would answer a request nobody reads.
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return result, err
	}

	r.logger.Warn("primary store failed, serving from memory",
		zap.String("store", r.name),
		zap.String("op", op),
		zap.Error(err))
	r.status.record(err)

	return call(r.secondary)
}

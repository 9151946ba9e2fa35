// Package store implements the persistence contract shared by the relational
// database and the in-memory fallback.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("record conflicts with an existing one")
	ErrInvalid     = errors.New("invalid record")
	ErrUnsupported = errors.New("operation not supported")
)

// IsDomainError reports whether err describes the data rather than the backend.
// Domain errors are returned to callers as-is and never trigger a fallback.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalid) ||
		errors.Is(err, ErrUnsupported)
}

// Record is satisfied by *db.Base and everything embedding it.
type Record interface {
	GetID() uint
	SetID(id uint)
	Created() time.Time
	SetTimestamps(created, updated time.Time)
}

// Entity constrains a type parameter to pointers of records.
type Entity[T any] interface {
	*T
	Record
}

// ListOptions narrows a List call.
type ListOptions struct {
	EnabledOnly bool
	Limit       int
	Offset      int
}

// Repository is the CRUD contract every backend implements.
type Repository[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
	Get(ctx context.Context, id uint) (*T, error)
	FindOne(ctx context.Context, column, value string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	Reorder(ctx context.Context, ids []uint) error
}

// Schema describes an entity once so that both backends agree on ordering,
// filtering and uniqueness.
type Schema[T any] struct {
	Name string

	// OrderBy is the SQL order clause; Compare must sort the same way.
	OrderBy string
	Compare func(a, b *T) int

	// EnabledColumn and Enabled are empty for entities without a visibility flag.
	EnabledColumn string
	Enabled       func(*T) bool

	// Lookups maps the columns FindOne accepts to their accessors.
	Lookups map[string]func(*T) string
	// Unique lists lookup columns whose non-empty values must not repeat.
	Unique []string

	// OrderColumn and SetOrder enable Reorder.
	OrderColumn string
	SetOrder    func(*T, int)
}

func (s Schema[T]) lookup(column string) (func(*T) string, bool) {
	if s.Lookups == nil {
		return nil, false
	}
	fn, ok := s.Lookups[column]
	return fn, ok
}

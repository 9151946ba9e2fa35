package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps records in process memory. It mirrors the ordering,
// filtering and uniqueness rules of GormRepository through the shared Schema.
type MemoryRepository[T any, PT Entity[T]] struct {
	mu     sync.RWMutex
	schema Schema[T]
	items  map[uint]T
	nextID uint
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository[T any, PT Entity[T]](schema Schema[T]) *MemoryRepository[T, PT] {
	return &MemoryRepository[T, PT]{
		schema: schema,
		items:  make(map[uint]T),
		now:    time.Now,
	}
}

// List returns a page of records and the total before pagination.
func (r *MemoryRepository[T, PT]) List(_ context.Context, opts ListOptions) ([]T, int64, error) {
	r.mu.RLock()
	items := make([]T, 0, len(r.items))
	for _, item := range r.items {
		if opts.EnabledOnly && r.schema.Enabled != nil && !r.schema.Enabled(&item) {
			continue
		}
		items = append(items, item)
	}
	r.mu.RUnlock()

	slices.SortFunc(items, func(a, b T) int {
		if r.schema.Compare != nil {
			if c := r.schema.Compare(&a, &b); c != 0 {
				return c
			}
		}
		return cmp.Compare(PT(&a).GetID(), PT(&b).GetID())
	})

	total := int64(len(items))
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []T{}, total, nil
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items, total, nil
}

// Get returns a copy of the record with the given id.
func (r *MemoryRepository[T, PT]) Get(_ context.Context, id uint) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

// FindOne returns the lowest-id record whose column equals value.
func (r *MemoryRepository[T, PT]) FindOne(_ context.Context, column, value string) (*T, error) {
	accessor, ok := r.schema.lookup(column)
	if !ok {
		return nil, fmt.Errorf("%w: lookup by %s on %s", ErrUnsupported, column, r.schema.Name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found   T
		foundID uint
	)
	for id, item := range r.items {
		if accessor(&item) != value {
			continue
		}
		if foundID == 0 || id < foundID {
			found, foundID = item, id
		}
	}
	if foundID == 0 {
		return nil, ErrNotFound
	}
	return &found, nil
}

// Create stores a copy of item. A preset id is kept when it is free.
func (r *MemoryRepository[T, PT]) Create(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := PT(item)
	id := record.GetID()
	if id != 0 {
		if _, taken := r.items[id]; taken {
			return fmt.Errorf("%w: %s id %d", ErrConflict, r.schema.Name, id)
		}
	}
	if err := r.checkUniqueLocked(item, id); err != nil {
		return err
	}

	if id == 0 {
		r.nextID++
		id = r.nextID
	} else if id > r.nextID {
		r.nextID = id
	}

	now := r.now()
	record.SetID(id)
	record.SetTimestamps(now, now)
	r.items[id] = *item
	return nil
}

// Update replaces a record, keeping its creation time.
func (r *MemoryRepository[T, PT]) Update(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := PT(item)
	id := record.GetID()
	existing, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if err := r.checkUniqueLocked(item, id); err != nil {
		return err
	}

	record.SetTimestamps(PT(&existing).Created(), r.now())
	r.items[id] = *item
	return nil
}

// Delete removes a record.
func (r *MemoryRepository[T, PT]) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Reorder assigns 0,1,2... to the given ids; unknown ids are ignored like an
// UPDATE that matches no row.
func (r *MemoryRepository[T, PT]) Reorder(_ context.Context, ids []uint) error {
	if r.schema.SetOrder == nil {
		return fmt.Errorf("%w: reorder %s", ErrUnsupported, r.schema.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for index, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		r.schema.SetOrder(&item, index)
		r.items[id] = item
	}
	return nil
}

// Len reports how many records are stored.
func (r *MemoryRepository[T, PT]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *MemoryRepository[T, PT]) checkUniqueLocked(item *T, self uint) error {
	for _, column := range r.schema.Unique {
		accessor, ok := r.schema.lookup(column)
		if !ok {
			continue
		}
		value := accessor(item)
		if value == "" {
			continue
		}
		for id, existing := range r.items {
			if id != self && accessor(&existing) == value {
				return fmt.Errorf("%w: %s %s=%q", ErrConflict, r.schema.Name, column, value)
			}
		}
	}
	return nil
}

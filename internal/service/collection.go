package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitecms/internal/store"
)

// collection holds the CRUD plumbing shared by the content services.
type collection[T any, PT store.Entity[T]] struct {
	repo     store.Repository[T]
	name     string
	notFound error
}

func newCollection[T any, PT store.Entity[T]](repo store.Repository[T], name string, notFound error) collection[T, PT] {
	return collection[T, PT]{repo: repo, name: name, notFound: notFound}
}

func (c collection[T, PT]) list(ctx context.Context, enabledOnly bool) ([]T, error) {
	items, _, err := c.repo.List(ctx, store.ListOptions{EnabledOnly: enabledOnly})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return items, nil
}

func (c collection[T, PT]) page(ctx context.Context, enabledOnly bool, page, perPage, fallback int) (PageResult[T], error) {
	result := PageResult[T]{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, fallback),
	}

	items, total, err := c.repo.List(ctx, store.ListOptions{
		EnabledOnly: enabledOnly,
		Limit:       result.PerPage,
		Offset:      (result.Page - 1) * result.PerPage,
	})
	if err != nil {
		return result, fmt.Errorf("list %s: %w", c.name, err)
	}

	result.Items = items
	result.Total = total
	result.TotalPages = calculateTotalPages(total, result.PerPage)
	return result, nil
}

func (c collection[T, PT]) get(ctx context.Context, id uint) (*T, error) {
	item, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, c.wrap("get", err)
	}
	return item, nil
}

func (c collection[T, PT]) find(ctx context.Context, column, value string) (*T, error) {
	item, err := c.repo.FindOne(ctx, column, value)
	if err != nil {
		return nil, c.wrap("find", err)
	}
	return item, nil
}

func (c collection[T, PT]) create(ctx context.Context, item *T) error {
	if err := c.repo.Create(ctx, item); err != nil {
		return c.wrap("create", err)
	}
	return nil
}

func (c collection[T, PT]) update(ctx context.Context, item *T) error {
	if err := c.repo.Update(ctx, item); err != nil {
		return c.wrap("update", err)
	}
	return nil
}

func (c collection[T, PT]) delete(ctx context.Context, id uint) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return c.wrap("delete", err)
	}
	return nil
}

func (c collection[T, PT]) reorder(ctx context.Context, ids []uint) error {
	if err := c.repo.Reorder(ctx, ids); err != nil {
		return c.wrap("reorder", err)
	}
	return nil
}

func (c collection[T, PT]) count(ctx context.Context) (int64, error) {
	_, total, err := c.repo.List(ctx, store.ListOptions{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.name, err)
	}
	return total, nil
}

// nextSortOrder returns max(order)+1 over all records, as computed by orderOf.
func (c collection[T, PT]) nextSortOrder(ctx context.Context, orderOf func(*T) int) (int, error) {
	items, _, err := c.repo.List(ctx, store.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("resolve %s sort order: %w", c.name, err)
	}
	next := 0
	for i := range items {
		if order := orderOf(&items[i]) + 1; order > next {
			next = order
		}
	}
	return next, nil
}

func (c collection[T, PT]) wrap(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.notFound
	}
	return fmt.Errorf("%s %s: %w", op, c.name, err)
}

// boolOr returns *v when set, else fallback.
func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

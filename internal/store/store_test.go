package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Slug      string `gorm:"uniqueIndex;not null"`
	Name      string
	Enabled   bool `gorm:"not null"`
	SortOrder int  `gorm:"not null;default:0"`
}

func (w *widget) GetID() uint        { return w.ID }
func (w *widget) SetID(id uint)      { w.ID = id }
func (w *widget) Created() time.Time { return w.CreatedAt }
func (w *widget) SetTimestamps(c, u time.Time) {
	if c.IsZero() {
		c = u
	}
	w.CreatedAt, w.UpdatedAt = c, u
}

var widgetSchema = Schema[widget]{
	Name:          "widgets",
	OrderBy:       "sort_order asc, id asc",
	Compare:       func(a, b *widget) int { return cmp.Compare(a.SortOrder, b.SortOrder) },
	EnabledColumn: "enabled",
	Enabled:       func(w *widget) bool { return w.Enabled },
	Lookups: map[string]func(*widget) string{
		"slug": func(w *widget) string { return w.Slug },
		"name": func(w *widget) string { return w.Name },
	},
	Unique:      []string{"slug"},
	OrderColumn: "sort_order",
	SetOrder:    func(w *widget, order int) { w.SortOrder = order },
}

func openWidgetDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&widget{}))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func backends(t *testing.T) map[string]Repository[widget] {
	return map[string]Repository[widget]{
		"gorm":   NewGormRepository[widget](openWidgetDB(t), widgetSchema),
		"memory": NewMemoryRepository[widget](widgetSchema),
	}
}

func TestRepositoryContract(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a := &widget{Slug: "a", Name: "Alpha", Enabled: true, SortOrder: 2}
			b := &widget{Slug: "b", Name: "Beta", Enabled: false, SortOrder: 1}
			c := &widget{Slug: "c", Name: "Gamma", Enabled: true, SortOrder: 3}
			for _, w := range []*widget{a, b, c} {
				require.NoError(t, repo.Create(ctx, w))
				require.NotZero(t, w.ID)
				require.False(t, w.CreatedAt.IsZero())
			}

			items, total, err := repo.List(ctx, ListOptions{})
			require.NoError(t, err)
			assert.EqualValues(t, 3, total)
			assert.Equal(t, []string{"b", "a", "c"}, slugs(items))

			items, total, err = repo.List(ctx, ListOptions{EnabledOnly: true, Limit: 1, Offset: 1})
			require.NoError(t, err)
			assert.EqualValues(t, 2, total)
			assert.Equal(t, []string{"c"}, slugs(items))

			found, err := repo.FindOne(ctx, "slug", "b")
			require.NoError(t, err)
			assert.Equal(t, "Beta", found.Name)

			_, err = repo.FindOne(ctx, "slug", "zzz")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = repo.FindOne(ctx, "enabled", "1")
			assert.ErrorIs(t, err, ErrUnsupported)

			err = repo.Create(ctx, &widget{Slug: "a"})
			assert.ErrorIs(t, err, ErrConflict)

			created := a.CreatedAt
			a.Name = "Alpha 2"
			a.Enabled = false
			require.NoError(t, repo.Update(ctx, a))
			got, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, "Alpha 2", got.Name)
			assert.False(t, got.Enabled)
			assert.WithinDuration(t, created, got.CreatedAt, time.Second)

			b.Slug = "c"
			assert.ErrorIs(t, repo.Update(ctx, b), ErrConflict)
			assert.ErrorIs(t, repo.Update(ctx, &widget{ID: 999, Slug: "x"}), ErrNotFound)

			require.NoError(t, repo.Reorder(ctx, []uint{c.ID, a.ID, b.ID}))
			items, _, err = repo.List(ctx, ListOptions{})
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "a", "b"}, slugs(items))

			require.NoError(t, repo.Delete(ctx, c.ID))
			assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
			_, err = repo.Get(ctx, c.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestReorderUnsupported(t *testing.T) {
	schema := widgetSchema
	schema.OrderColumn = ""
	schema.SetOrder = nil

	ctx := context.Background()
	assert.ErrorIs(t, NewMemoryRepository[widget](schema).Reorder(ctx, []uint{1}), ErrUnsupported)
	assert.ErrorIs(t, NewGormRepository[widget](openWidgetDB(t), schema).Reorder(ctx, []uint{1}), ErrUnsupported)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[widget](widgetSchema)

	w := &widget{Slug: "a", Name: "original"}
	require.NoError(t, repo.Create(ctx, w))
	w.Name = "mutated"

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)

	got.Name = "mutated again"
	again, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}

func TestMemoryRepositoryKeepsPresetIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[widget](widgetSchema)

	require.NoError(t, repo.Create(ctx, &widget{ID: 10, Slug: "ten"}))
	next := &widget{Slug: "eleven"}
	require.NoError(t, repo.Create(ctx, next))
	assert.EqualValues(t, 11, next.ID)
	assert.ErrorIs(t, repo.Create(ctx, &widget{ID: 10, Slug: "other"}), ErrConflict)
	assert.Equal(t, 2, repo.Len())
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.True(t, IsDomainError(ErrConflict))
	assert.False(t, IsDomainError(errors.New("disk I/O error")))
}

func slugs(items []widget) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Slug)
	}
	return out
}

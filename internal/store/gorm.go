package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormRepository is the relational backend.
type GormRepository[T any, PT Entity[T]] struct {
	db     *gorm.DB
	schema Schema[T]
}

// NewGormRepository creates a repository over gdb.
func NewGormRepository[T any, PT Entity[T]](gdb *gorm.DB, schema Schema[T]) *GormRepository[T, PT] {
	return &GormRepository[T, PT]{db: gdb, schema: schema}
}

// List returns a page of records and the total before pagination.
func (r *GormRepository[T, PT]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	if opts.EnabledOnly && r.schema.EnabledColumn != "" {
		query = query.Where(r.schema.EnabledColumn+" = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	if r.schema.OrderBy != "" {
		query = query.Order(r.schema.OrderBy)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	items := make([]T, 0)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

// Get fetches a record by primary key.
func (r *GormRepository[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindOne fetches the first record whose column equals value.
func (r *GormRepository[T, PT]) FindOne(ctx context.Context, column, value string) (*T, error) {
	if _, ok := r.schema.lookup(column); !ok {
		return nil, fmt.Errorf("%w: lookup by %s on %s", ErrUnsupported, column, r.schema.Name)
	}

	var item T
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Create inserts item and writes the generated id back into it.
func (r *GormRepository[T, PT]) Create(ctx context.Context, item *T) error {
	if err := r.checkUnique(ctx, item); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// Update replaces every column except the creation time.
func (r *GormRepository[T, PT]) Update(ctx context.Context, item *T) error {
	id := PT(item).GetID()
	if id == 0 {
		return fmt.Errorf("%w: update without id", ErrInvalid)
	}

	var existing T
	tx := r.db.WithContext(ctx)
	if err := tx.First(&existing, id).Error; err != nil {
		return translate(err)
	}
	if err := r.checkUnique(ctx, item); err != nil {
		return err
	}

	if err := tx.Model(item).Select("*").Omit("id", "created_at").Updates(item).Error; err != nil {
		return translate(err)
	}
	return translate(tx.First(item, id).Error)
}

// Delete removes a record by primary key.
func (r *GormRepository[T, PT]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder 按给定顺序重排排序字段
// 传入的 IDs 会被依次赋值 0,1,2...，未包含的条目保持原排序
func (r *GormRepository[T, PT]) Reorder(ctx context.Context, ids []uint) error {
	if r.schema.OrderColumn == "" {
		return fmt.Errorf("%w: reorder %s", ErrUnsupported, r.schema.Name)
	}
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(new(T)).Where("id = ?", id).Update(r.schema.OrderColumn, index).Error; err != nil {
				return fmt.Errorf("reorder %s: %w", r.schema.Name, translate(err))
			}
		}
		return nil
	})
}

// checkUnique reports ErrConflict before the database does, so that the error
// looks the same regardless of the driver.
func (r *GormRepository[T, PT]) checkUnique(ctx context.Context, item *T) error {
	self := PT(item).GetID()
	for _, column := range r.schema.Unique {
		accessor, ok := r.schema.lookup(column)
		if !ok {
			continue
		}
		value := accessor(item)
		if value == "" {
			continue
		}

		var count int64
		query := r.db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value)
		if self != 0 {
			query = query.Where("id <> ?", self)
		}
		if err := query.Count(&count).Error; err != nil {
			return translate(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s %s=%q", ErrConflict, r.schema.Name, column, value)
		}
	}
	return nil
}

const (
	pqDataException    = pq.ErrorClass("22")
	pqNotNullViolation = pq.ErrorCode("23502")
	pqCheckViolation   = pq.ErrorCode("23514")
	pqUniqueViolation  = pq.ErrorCode("23505")
)

func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 数据本身的问题（超长、空值）不是后端故障，不能触发内存降级。
		switch {
		case pqErr.Code.Class() == pqDataException,
			pqErr.Code == pqNotNullViolation,
			pqErr.Code == pqCheckViolation:
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		case pqErr.Code == pqUniqueViolation:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	default:
		return err
	}
}

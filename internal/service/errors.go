package service

import (
	"errors"
	"fmt"

	"github.com/sitecms/internal/store"
)

var (
	// ErrNotFound 与存储层保持一致，便于 handler 统一映射 404。
	ErrNotFound = store.ErrNotFound
	// ErrConflict 表示唯一字段冲突。
	ErrConflict = store.ErrConflict
	// ErrInvalidRecord 表示数据库拒绝了字段值（超长、缺失必填列等）。
	ErrInvalidRecord = store.ErrInvalid
	// ErrInvalidInput 表示请求字段不合法，具体原因在包装信息中。
	ErrInvalidInput = errors.New("invalid input")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundError(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

package db

import "time"

// Base 替代 gorm.Model：不使用软删除，保证内存存储与数据库行为一致。
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID returns the primary key.
func (b *Base) GetID() uint { return b.ID }

// SetID assigns the primary key.
func (b *Base) SetID(id uint) { b.ID = id }

// Created returns the creation timestamp.
func (b *Base) Created() time.Time { return b.CreatedAt }

// SetTimestamps sets both timestamps; a zero created value falls back to updated.
func (b *Base) SetTimestamps(created, updated time.Time) {
	if created.IsZero() {
		created = updated
	}
	b.CreatedAt = created
	b.UpdatedAt = updated
}

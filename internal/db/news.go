package db

import "time"

const (
	NewsOriginManual   = "manual"
	NewsOriginExternal = "external"
)

// News is a news item, written by an admin or pulled from the external news API.
type News struct {
	Base
	Title       string    `gorm:"size:300;not null" json:"title"`
	Slug        string    `gorm:"size:320;uniqueIndex;not null" json:"slug"`
	Summary     string    `gorm:"type:text" json:"summary"`
	Content     string    `gorm:"type:text" json:"content"`
	ImageURL    string    `gorm:"size:1024" json:"imageUrl"`
	Author      string    `gorm:"size:200" json:"author"`
	SourceName  string    `gorm:"size:200" json:"sourceName"`
	SourceURL   string    `gorm:"size:1024;index" json:"sourceUrl"`
	Origin      string    `gorm:"size:20;not null" json:"origin"`
	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
	Enabled     bool      `gorm:"not null" json:"enabled"`
}

// TableName keeps the singular noun readable.
func (News) TableName() string {
	return "news"
}

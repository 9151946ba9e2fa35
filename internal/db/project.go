package db

// Project 产品/案例展示，对应前台 products 区块。
type Project struct {
	Base
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Category    string `gorm:"size:80;index" json:"category"`
	Summary     string `gorm:"size:500" json:"summary"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:1024" json:"imageUrl"`
	Link        string `gorm:"size:1024" json:"link"`
	Featured    bool   `gorm:"not null" json:"featured"`
	Enabled     bool   `gorm:"not null" json:"enabled"`
	SortOrder   int    `gorm:"not null;default:0" json:"sortOrder"`
}

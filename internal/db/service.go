package db

// Service is an offering listed in the services section.
type Service struct {
	Base
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Summary     string `gorm:"size:500" json:"summary"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:60" json:"icon"`
	ImageURL    string `gorm:"size:1024" json:"imageUrl"`
	Enabled     bool   `gorm:"not null" json:"enabled"`
	SortOrder   int    `gorm:"not null;default:0" json:"sortOrder"`
}

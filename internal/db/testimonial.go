package db

// Testimonial 客户评价
type Testimonial struct {
	Base
	Author    string `gorm:"size:120;not null" json:"author"`
	Role      string `gorm:"size:120" json:"role"`
	Company   string `gorm:"size:120" json:"company"`
	Quote     string `gorm:"type:text;not null" json:"quote"`
	AvatarURL string `gorm:"size:1024" json:"avatarUrl"`
	Rating    int    `gorm:"not null" json:"rating"`
	Enabled   bool   `gorm:"not null" json:"enabled"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
}

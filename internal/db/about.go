package db

// About holds the single "about us" record. Body is markdown.
type About struct {
	Base
	Heading  string `gorm:"size:200;not null" json:"heading"`
	Summary  string `gorm:"size:300" json:"summary"`
	Body     string `gorm:"type:text" json:"body"`
	Mission  string `gorm:"type:text" json:"mission"`
	Vision   string `gorm:"type:text" json:"vision"`
	ImageURL string `gorm:"size:1024" json:"imageUrl"`
}

// TableName 单例表使用单数名。
func (About) TableName() string {
	return "about"
}

package db

// Section 表示首页上的一个可配置区块，例如 hero、services、contact。
// Data 保存区块的 JSON 配置，读取时由 service 层归一化。
type Section struct {
	Base
	Key       string `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Title     string `gorm:"size:200" json:"title"`
	Subtitle  string `gorm:"size:300" json:"subtitle"`
	Data      string `gorm:"type:text" json:"-"`
	Enabled   bool   `gorm:"not null" json:"enabled"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
}

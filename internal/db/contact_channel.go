package db

// ContactChannel 用于保存前台联系区块展示的联系方式与社交账号
// Icon 字段用于匹配前端内置的图标
// Visible 标记是否在前台展示
// Sort 值越小越靠前

type ContactChannel struct {
	Base
	Platform string `gorm:"size:50;not null" json:"platform"`
	Label    string `gorm:"size:80;not null" json:"label"`
	Value    string `gorm:"size:255;not null" json:"value"`
	Link     string `gorm:"size:255" json:"link"`
	Icon     string `gorm:"size:50" json:"icon"`
	Sort     int    `gorm:"not null;default:0" json:"sort"`
	Visible  bool   `gorm:"not null" json:"visible"`
}

// TableName 返回自定义表名，避免冲突
func (ContactChannel) TableName() string {
	return "contact_channels"
}

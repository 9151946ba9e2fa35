package db

// AdminUser 定义了后台管理员模型
type AdminUser struct {
	Base
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
}

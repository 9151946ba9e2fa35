package db

// SystemSetting 存储后台可配置的系统级键值对。
type SystemSetting struct {
	Base
	Key   string `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeySiteName 表示站点名称。
	SettingKeySiteName = "site_name"
	// SettingKeySiteLogoURL 表示站点 Logo 链接。
	SettingKeySiteLogoURL = "site_logo_url"
	// SettingKeyContactRecipient 表示联系表单的收件邮箱。
	SettingKeyContactRecipient = "contact_recipient"
	// SettingKeyNewsQuery 覆盖新闻抓取的关键词，逗号分隔。
	SettingKeyNewsQuery = "news_query"
	// SettingKeyNewsEnabled 控制定时抓取是否执行。
	SettingKeyNewsEnabled = "news_enabled"
)

package db

// Asset 记录一次上传的文件，图片会额外保存宽高。
type Asset struct {
	Base
	FileName     string `gorm:"size:200;uniqueIndex;not null" json:"fileName"`
	OriginalName string `gorm:"size:255" json:"originalName"`
	URL          string `gorm:"size:1024;not null" json:"url"`
	MimeType     string `gorm:"size:100;not null" json:"mimeType"`
	Size         int64  `gorm:"not null" json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Alt          string `gorm:"size:300" json:"alt"`
}

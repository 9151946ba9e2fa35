package db

// Job is an open position shown in the careers section.
type Job struct {
	Base
	Title          string `gorm:"size:200;not null" json:"title"`
	Slug           string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Department     string `gorm:"size:120" json:"department"`
	Location       string `gorm:"size:120" json:"location"`
	EmploymentType string `gorm:"size:30;not null" json:"employmentType"`
	Summary        string `gorm:"size:500" json:"summary"`
	Description    string `gorm:"type:text" json:"description"`
	ApplyURL       string `gorm:"size:1024" json:"applyUrl"`
	ApplyEmail     string `gorm:"size:200" json:"applyEmail"`
	Enabled        bool   `gorm:"not null" json:"enabled"`
	SortOrder      int    `gorm:"not null;default:0" json:"sortOrder"`
}

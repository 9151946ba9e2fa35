package db

// ContactMessage stores a submission of the public contact form together with
// the outcome of the mail delivery.
type ContactMessage struct {
	Base
	Name          string `gorm:"size:120;not null" json:"name"`
	Email         string `gorm:"size:200;not null" json:"email"`
	Phone         string `gorm:"size:60" json:"phone"`
	Company       string `gorm:"size:120" json:"company"`
	Subject       string `gorm:"size:200" json:"subject"`
	Message       string `gorm:"type:text;not null" json:"message"`
	Delivered     bool   `gorm:"not null" json:"delivered"`
	DeliveryError string `gorm:"size:500" json:"deliveryError,omitempty"`
}

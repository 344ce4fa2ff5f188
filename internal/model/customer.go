package model

import "time"

// Customer is derived from the raw export's customer key. IDs are natural
// keys from the source, so auto-increment is disabled.
type Customer struct {
	ID         int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	City       string    `gorm:"type:varchar(100);not null" json:"city"`
	SignupDate time.Time `gorm:"type:date;not null" json:"signup_date"`

	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

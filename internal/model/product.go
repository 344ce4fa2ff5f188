package model

// Product ID is the source stock code (alphanumeric, e.g. "85123A").
type Product struct {
	ID       string  `gorm:"type:varchar(20);primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Category string  `gorm:"type:varchar(50);not null" json:"category"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock    int     `gorm:"not null" json:"stock"`

	Orders []Order `gorm:"foreignKey:ProductID" json:"orders,omitempty"`
}

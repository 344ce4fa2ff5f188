package model

import "time"

// Order is one line-item of the raw export. Repeated customer/product pairs
// yield repeated rows on purpose.
type Order struct {
	ID         int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerID int       `gorm:"not null;index:idx_orders_customer_id" json:"customer_id"`
	ProductID  string    `gorm:"type:varchar(20);not null;index:idx_orders_product_id" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity" validate:"gt=0"`
	OrderDate  time.Time `gorm:"type:date;not null;index:idx_orders_date" json:"order_date"`
	Total      float64   `gorm:"type:decimal(10,2);not null" json:"total" validate:"gte=0"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
}

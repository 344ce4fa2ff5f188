package model

import "time"

// Sale mirrors its order 1:1 and adds a synthetic profit margin.
type Sale struct {
	ID           int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OrderID      int       `gorm:"not null;index:idx_sales_order_id" json:"order_id"`
	Revenue      float64   `gorm:"type:decimal(10,2);not null" json:"revenue"`
	ProfitMargin float64   `gorm:"type:decimal(5,3);not null" json:"profit_margin" validate:"gte=0.15,lte=0.45"`
	SalesDate    time.Time `gorm:"type:date;not null;index:idx_sales_date" json:"sales_date"`

	Order Order `gorm:"foreignKey:OrderID" json:"order,omitempty" validate:"-"`
}

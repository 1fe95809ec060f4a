package models

import "time"

// OrderHistory records a single stock movement for a product. Positive
// quantities are restocks (manual adjustments or CSV-driven increases).
// Rows are immutable once created; they are only inserted, or bulk-deleted
// together with their product.
type OrderHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	OrderDate time.Time `json:"order_date"`
	Dealer    string    `gorm:"size:100" json:"dealer"`
}

func (OrderHistory) TableName() string { return "order_histories" }

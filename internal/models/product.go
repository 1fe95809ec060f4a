package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry tracked by the inventory.
//
// The (ProductName, Manufacturer, Dealer) tuple is intended to be unique but
// is not enforced at the schema level; callers must check before insert.
// ProductCode uniqueness IS enforced.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductCode  string          `gorm:"size:50;unique;not null" json:"product_code"`
	Category     *string         `gorm:"size:100" json:"category"`
	Manufacturer string          `gorm:"size:100;not null" json:"manufacturer"`
	ProductName  string          `gorm:"size:200;not null" json:"product_name"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	MinQuantity  int             `gorm:"default:0" json:"min_quantity"`
	CurrentStock int             `gorm:"default:0" json:"current_stock"`
	Dealer       *string         `gorm:"size:100" json:"dealer"`

	// IsPlaceholder marks bookkeeping rows created solely to register a
	// category or dealer value that has no real product yet. Placeholder rows
	// are excluded from listing, search, import matching and reports.
	IsPlaceholder bool `gorm:"default:false" json:"is_placeholder"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// Shortfall returns the unmet minimum-stock requirement, or 0 when stocked.
func (p *Product) Shortfall() int {
	if s := p.MinQuantity - p.CurrentStock; s > 0 {
		return s
	}
	return 0
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          uint      `gorm:"primaryKey"`
	Timestamp   time.Time `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	User        User
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Items []SaleItem `gorm:"constraint:OnDelete:CASCADE"`
}

// SaleItem is written once together with its Sale and never updated.
type SaleItem struct {
	ID          uint `gorm:"primaryKey"`
	SaleID      uint `gorm:"not null;index"`
	ProductID   uint `gorm:"not null;index"`
	Product     Product
	Quantity    int             `gorm:"not null"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// LineTotal is quantity × price_at_sale.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

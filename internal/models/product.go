package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultImageFile = "default.jpg"

// Product is soft-deleted so that past sale items keep resolving it.
type Product struct {
	gorm.Model
	Name          string          `gorm:"size:100;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	ImageFile     string          `gorm:"size:255;default:default.jpg"`
}

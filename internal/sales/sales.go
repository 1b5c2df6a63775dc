// Package sales records cart checkouts and loads them back for receipts.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marco-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrSaleNotFound    = errors.New("sale not found")
)

const unknownProduct = "Unknown item"

// StockError aborts a sale when a cart line cannot be covered by stock.
type StockError struct {
	ProductID   uint
	ProductName string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s.", e.ProductName)
}

// Line is one cart entry.
type Line struct {
	ProductID uint
	Quantity  int
}

// Record checks stock, writes one Sale with a SaleItem per line and
// decrements stock, all in a single transaction. Any failure leaves the
// database untouched.
//
// The decrement is a conditional update evaluated by the database, so two
// concurrent carts cannot drive stock below zero: the loser gets a
// StockError and its transaction is rolled back.
func Record(ctx context.Context, db *gorm.DB, userID uint, cart []Line) (*models.Sale, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var sale models.Sale
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		priced := make([]models.Product, len(cart))
		total := decimal.Zero

		for i, line := range cart {
			var product models.Product
			err := tx.First(&product, line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &StockError{ProductID: line.ProductID, ProductName: unknownProduct}
			}
			if err != nil {
				return fmt.Errorf("load product %d: %w", line.ProductID, err)
			}
			if product.StockQuantity < line.Quantity {
				return &StockError{ProductID: product.ID, ProductName: product.Name}
			}

			priced[i] = product
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		sale = models.Sale{
			Timestamp:   time.Now().UTC(),
			UserID:      userID,
			TotalAmount: total,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		for i, line := range cart {
			product := priced[i]

			item := models.SaleItem{
				SaleID:      sale.ID,
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtSale: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create sale item: %w", err)
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", product.ID, line.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock for product %d: %w", product.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return &StockError{ProductID: product.ID, ProductName: product.Name}
			}

			sale.Items = append(sale.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Load fetches a sale with its cashier and ordered items. Products are
// loaded even when they have since been deleted from the catalog.
func Load(ctx context.Context, db *gorm.DB, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sale %d: %w", id, err)
	}
	return &sale, nil
}

// CanView reports whether a user may see the sale's receipt: admins see
// every sale, anyone else only their own.
func CanView(role models.Role, userID uint, sale *models.Sale) bool {
	return role == models.RoleAdmin || sale.UserID == userID
}

// Package catalog holds the product inventory operations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marco-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrNameRequired  = errors.New("product name is required")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("stock quantity must not be negative")
)

// NewProduct is the input for Create.
type NewProduct struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	ImageFile     string
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string
	Price         *decimal.Decimal
	StockQuantity *int
	ImageFile     *string
}

func List(ctx context.Context, db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return &product, nil
}

func Create(ctx context.Context, db *gorm.DB, in NewProduct) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in.Name, in.Price, in.StockQuantity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageFile) == "" {
		in.ImageFile = models.DefaultImageFile
	}

	product := models.Product{
		Name:          in.Name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ImageFile:     in.ImageFile,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// Update applies the supplied fields only.
func Update(ctx context.Context, db *gorm.DB, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.ImageFile != nil && strings.TrimSpace(*patch.ImageFile) != "" {
		product.ImageFile = strings.TrimSpace(*patch.ImageFile)
	}
	if err := validate(product.Name, product.Price, product.StockQuantity); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return product, nil
}

// Delete soft-deletes the product: it leaves the catalog but past sale
// items and receipts still resolve it.
func Delete(ctx context.Context, db *gorm.DB, id uint) (*models.Product, error) {
	product, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}
	return product, nil
}

func validate(name string, price decimal.Decimal, stock int) error {
	switch {
	case name == "":
		return ErrNameRequired
	case price.IsNegative():
		return ErrNegativePrice
	case stock < 0:
		return ErrNegativeStock
	}
	return nil
}

// IsValidationError reports whether err is a rejected input rather than a
// storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrNegativeStock)
}

// Package seed resets the database and loads the fixture users and products.
package seed

import (
	"context"
	"fmt"

	"marco-pos/internal/auth"
	"marco-pos/internal/database"
	"marco-pos/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedUser struct {
	Username string
	Password string
	Role     models.Role
}

type seedProduct struct {
	Name  string
	Price string
	Stock int
}

var users = []seedUser{
	{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
	{Username: "cashier", Password: "cashier123", Role: models.RoleCashier},
}

var products = []seedProduct{
	{Name: "Gold Hoop Earrings", Price: "10.00", Stock: 50},
	{Name: "Silver Chain Necklace", Price: "8.50", Stock: 40},
	{Name: "Beaded Bracelet", Price: "5.00", Stock: 75},
	{Name: "Pearl Ring", Price: "7.00", Stock: 60},
	{Name: "Minimalist Barrette", Price: "3.00", Stock: 100},
	{Name: "Layered Necklace", Price: "9.00", Stock: 30},
	{Name: "Simple Studs", Price: "2.50", Stock: 120},
	{Name: "Anklet Chain", Price: "4.00", Stock: 80},
	{Name: "Hair Claw Clip", Price: "1.00", Stock: 150},
	{Name: "Pendant Necklace", Price: "6.50", Stock: 55},
}

// Run drops and recreates the schema, then inserts the fixtures in one
// transaction. It is meant for first-run setup only.
func Run(ctx context.Context, db *gorm.DB) error {
	if err := database.Reset(db); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	zap.L().Info("schema recreated")

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if _, err := auth.CreateUser(ctx, tx, u.Username, u.Password, u.Role); err != nil {
				return err
			}
			zap.L().Info("created seed user",
				zap.String("username", u.Username),
				zap.String("role", string(u.Role)))
		}

		rows := make([]models.Product, 0, len(products))
		for _, p := range products {
			rows = append(rows, models.Product{
				Name:          p.Name,
				Price:         decimal.RequireFromString(p.Price),
				StockQuantity: p.Stock,
				ImageFile:     models.DefaultImageFile,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("create products: %w", err)
		}
		zap.L().Info("created sample products", zap.Int("count", len(rows)))
		return nil
	})
}

package handlers

import (
	"errors"
	"net/http"

	"marco-pos/internal/database"
	"marco-pos/internal/middleware"
	"marco-pos/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cartLine struct {
	ID       uint `json:"id" binding:"required"`
	Quantity int  `json:"quantity"`
}

type recordSaleRequest struct {
	Cart []cartLine `json:"cart" binding:"dive"`
}

// RecordSale checks out the cashier's cart.
func RecordSale(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid cart.")
		return
	}

	lines := make([]sales.Line, 0, len(req.Cart))
	for _, l := range req.Cart {
		lines = append(lines, sales.Line{ProductID: l.ID, Quantity: l.Quantity})
	}

	sale, err := sales.Record(c.Request.Context(), database.DB, p.UserID, lines)
	var stockErr *sales.StockError
	switch {
	case err == nil:
	case errors.As(err, &stockErr):
		fail(c, http.StatusBadRequest, stockErr.Error())
		return
	case errors.Is(err, sales.ErrEmptyCart):
		fail(c, http.StatusBadRequest, "Cart is empty.")
		return
	case errors.Is(err, sales.ErrInvalidQuantity):
		fail(c, http.StatusBadRequest, "Quantities must be positive whole numbers.")
		return
	default:
		internalError(c, "An error occurred while recording the sale.", err)
		return
	}

	zap.L().Info("sale recorded",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("user_id", p.UserID),
		zap.Int("lines", len(sale.Items)),
		zap.String("total", sale.TotalAmount.StringFixed(2)))
	database.CreateAuditLog(database.DB.WithContext(c.Request.Context()), p.UserID, "sale", sale.ID, "create",
		"Recorded sale, total "+sale.TotalAmount.StringFixed(2))

	ok(c, http.StatusOK, "Sale recorded successfully.", gin.H{
		"sale_id": sale.ID,
		"total":   sale.TotalAmount.InexactFloat64(),
	})
}

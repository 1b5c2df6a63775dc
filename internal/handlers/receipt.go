package handlers

import (
	"errors"
	"net/http"

	"marco-pos/internal/database"
	"marco-pos/internal/middleware"
	"marco-pos/internal/receipt"
	"marco-pos/internal/sales"

	"github.com/gin-gonic/gin"
)

// Receipt serves a sale as an inline PDF to an admin or the cashier who
// recorded it.
func Receipt(opts receipt.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, okID := parseID(c, "sale_id")
		if !okID {
			fail(c, http.StatusNotFound, "Sale not found.")
			return
		}

		sale, err := sales.Load(c.Request.Context(), database.DB, id)
		if errors.Is(err, sales.ErrSaleNotFound) {
			fail(c, http.StatusNotFound, "Sale not found.")
			return
		}
		if err != nil {
			internalError(c, "Failed to load sale.", err)
			return
		}

		p := middleware.CurrentPrincipal(c)
		if !sales.CanView(p.Role, p.UserID, sale) {
			fail(c, http.StatusForbidden, "Unauthorized")
			return
		}

		data, err := receipt.Render(sale, opts)
		if err != nil {
			internalError(c, "Failed to render receipt.", err)
			return
		}

		c.Header("Content-Disposition", "inline; filename="+receipt.Filename(sale.ID))
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

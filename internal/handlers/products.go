package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"marco-pos/internal/catalog"
	"marco-pos/internal/database"
	"marco-pos/internal/middleware"
	"marco-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productView struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	ImageFile string  `json:"image_file"`
}

func newProductView(p models.Product) productView {
	return productView{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.InexactFloat64(),
		Stock:     p.StockQuantity,
		ImageFile: p.ImageFile,
	}
}

type createProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	StockQuantity *int             `json:"stock_quantity" binding:"required"`
	ImageFile     string           `json:"image_file"`
}

// updateProductRequest fields are optional; only those present change.
type updateProductRequest struct {
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageFile     *string          `json:"image_file"`
}

func ListProducts(c *gin.Context) {
	products, err := catalog.List(c.Request.Context(), database.DB)
	if err != nil {
		internalError(c, "Failed to load products.", err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	c.JSON(http.StatusOK, views)
}

func GetProduct(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		fail(c, http.StatusNotFound, "Product not found.")
		return
	}

	product, err := catalog.Get(c.Request.Context(), database.DB, id)
	if err != nil {
		productError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductView(*product))
}

func CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Name, price and stock quantity are required.")
		return
	}

	product, err := catalog.Create(c.Request.Context(), database.DB, catalog.NewProduct{
		Name:          req.Name,
		Price:         *req.Price,
		StockQuantity: *req.StockQuantity,
		ImageFile:     req.ImageFile,
	})
	if err != nil {
		productError(c, err)
		return
	}

	audit(c, product.ID, "create", "Created product: "+product.Name)
	ok(c, http.StatusCreated, "Product added successfully.", gin.H{"product_id": product.ID})
}

func UpdateProduct(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		fail(c, http.StatusNotFound, "Product not found.")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid product data.")
		return
	}

	product, err := catalog.Update(c.Request.Context(), database.DB, id, catalog.ProductPatch{
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageFile:     req.ImageFile,
	})
	if err != nil {
		productError(c, err)
		return
	}

	audit(c, product.ID, "update", fmt.Sprintf("Updated product: %s (price %s, stock %d)",
		product.Name, product.Price.StringFixed(2), product.StockQuantity))
	ok(c, http.StatusOK, "Product updated successfully.", nil)
}

func DeleteProduct(c *gin.Context) {
	id, okID := parseID(c, "id")
	if !okID {
		fail(c, http.StatusNotFound, "Product not found.")
		return
	}

	product, err := catalog.Delete(c.Request.Context(), database.DB, id)
	if err != nil {
		productError(c, err)
		return
	}

	audit(c, product.ID, "delete", "Deleted product: "+product.Name)
	ok(c, http.StatusOK, "Product deleted successfully.", nil)
}

func productError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		fail(c, http.StatusNotFound, "Product not found.")
	case catalog.IsValidationError(err):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		internalError(c, "Failed to save product.", err)
	}
}

func audit(c *gin.Context, productID uint, action, details string) {
	if p := middleware.CurrentPrincipal(c); p != nil {
		database.CreateAuditLog(database.DB.WithContext(c.Request.Context()), p.UserID, "product", productID, action, details)
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

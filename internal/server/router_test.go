package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"marco-pos/internal/auth"
	"marco-pos/internal/config"
	"marco-pos/internal/database"
	"marco-pos/internal/models"
	"marco-pos/internal/seed"
	"marco-pos/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Role      string  `json:"role"`
	SaleID    uint    `json:"sale_id"`
	ProductID uint    `json:"product_id"`
	Total     float64 `json:"total"`
}

type productJSON struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database.DB = testutil.NewDB(t)
	require.NoError(t, seed.Run(context.Background(), database.DB))

	cfg := &config.Config{
		SessionSecret:  "test-session-secret",
		SessionName:    "pos_session",
		SessionMaxAge:  3600,
		StoreName:      "Marco Aesthetics",
		CurrencySymbol: "K",
	}
	srv := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(srv.Close)
	return srv
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(method, path string, body interface{}) *http.Response {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, b.base+path, reader)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (b *browser) api(method, path string, body interface{}) (int, apiResponse) {
	b.t.Helper()
	resp := b.do(method, path, body)
	var out apiResponse
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (b *browser) login(username, password string) {
	b.t.Helper()
	status, out := b.api(http.MethodPost, "/login", gin.H{"username": username, "password": password})
	require.Equal(b.t, http.StatusOK, status)
	require.True(b.t, out.Success)
}

func (b *browser) products() []productJSON {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/api/products", nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	var out []productJSON
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func productByName(t *testing.T, name string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, database.DB.Where("name = ?", name).First(&p).Error)
	return p
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := newBrowser(t, srv).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestLoginGatesProducts(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)

	status, out := b.api(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, out.Success)

	status, out = b.api(http.MethodPost, "/login", gin.H{"username": "cashier", "password": "cashier123"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)
	assert.Equal(t, "cashier", out.Role)

	products := b.products()
	assert.Len(t, products, 10)
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)

	tests := []struct {
		name     string
		body     gin.H
		expected int
	}{
		{name: "wrong password", body: gin.H{"username": "admin", "password": "admin124"}, expected: http.StatusUnauthorized},
		{name: "unknown user", body: gin.H{"username": "nobody", "password": "admin123"}, expected: http.StatusUnauthorized},
		{name: "missing password", body: gin.H{"username": "admin"}, expected: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := b.api(http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.expected, status)
			assert.False(t, out.Success)
			assert.Equal(t, "Invalid username or password", out.Message)
		})
	}
}

func TestPageRedirects(t *testing.T) {
	srv := newTestServer(t)

	anon := newBrowser(t, srv)
	for _, path := range []string{"/", "/admin", "/cashier", "/logout"} {
		resp := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp := anon.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "login-form")

	admin := newBrowser(t, srv)
	admin.login("admin", "admin123")

	resp = admin.do(http.MethodGet, "/", nil)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	resp = admin.do(http.MethodGet, "/login", nil)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	resp = admin.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "product-form")
}

func TestWrongRoleGetsFlashRedirect(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("cashier", "cashier123")

	resp := b.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cashier", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "You do not have permission to access this page.")

	// the flash is shown once
	resp = b.do(http.MethodGet, "/cashier", nil)
	assert.NotContains(t, readBody(t, resp), "You do not have permission")
}

func TestCashierCannotMutateProducts(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("cashier", "cashier123")

	ring := productByName(t, "Pearl Ring")
	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/products", gin.H{"name": "Toe Ring", "price": 2.5, "stock_quantity": 10}},
		{http.MethodPost, "/api/products", gin.H{"garbage": true}},
		{http.MethodPut, "/api/products/" + itoa(ring.ID), gin.H{"price": 1}},
		{http.MethodDelete, "/api/products/" + itoa(ring.ID), nil},
	}
	for _, r := range requests {
		status, out := b.api(r.method, r.path, r.body)
		assert.Equal(t, http.StatusForbidden, status, "%s %s", r.method, r.path)
		assert.False(t, out.Success)
	}
	assert.Len(t, b.products(), 10)
}

func TestAdminProductLifecycle(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("admin", "admin123")

	status, out := b.api(http.MethodPost, "/api/products", gin.H{"name": "Toe Ring", "price": 2.5, "stock_quantity": 10})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, out.Success)
	require.NotZero(t, out.ProductID)
	id := itoa(out.ProductID)

	status, out = b.api(http.MethodPost, "/api/products", gin.H{"name": "Toe Ring", "price": -1, "stock_quantity": 10})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, out.Success)

	status, _ = b.api(http.MethodPost, "/api/products", gin.H{"name": "Toe Ring"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, out = b.api(http.MethodPut, "/api/products/"+id, gin.H{"stock_quantity": 4})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)

	updated := productByName(t, "Toe Ring")
	assert.Equal(t, 4, updated.StockQuantity)
	assert.Equal(t, 2.5, updated.Price.InexactFloat64())

	status, _ = b.api(http.MethodPut, "/api/products/9999", gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, status)

	status, out = b.api(http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)

	status, _ = b.api(http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Len(t, b.products(), 10)

	var logs int64
	require.NoError(t, database.DB.Model(&models.AuditLog{}).Where("entity = ?", "product").Count(&logs).Error)
	assert.Equal(t, int64(3), logs)
}

func TestRecordSale(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("cashier", "cashier123")

	ring := productByName(t, "Pearl Ring")
	status, out := b.api(http.MethodPost, "/api/sales", gin.H{
		"cart": []gin.H{{"id": ring.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)
	assert.NotZero(t, out.SaleID)
	assert.Equal(t, 14.0, out.Total)

	assert.Equal(t, 58, productByName(t, "Pearl Ring").StockQuantity)

	var sale models.Sale
	require.NoError(t, database.DB.Preload("Items").First(&sale, out.SaleID).Error)
	assert.Equal(t, 14.0, sale.TotalAmount.InexactFloat64())
	assert.Len(t, sale.Items, 1)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("cashier", "cashier123")

	ring := productByName(t, "Pearl Ring")
	necklace := productByName(t, "Layered Necklace")

	status, out := b.api(http.MethodPost, "/api/sales", gin.H{
		"cart": []gin.H{
			{"id": ring.ID, "quantity": 1},
			{"id": necklace.ID, "quantity": necklace.StockQuantity + 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "Layered Necklace")

	var sales int64
	require.NoError(t, database.DB.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales)
	assert.Equal(t, 60, productByName(t, "Pearl Ring").StockQuantity)
	assert.Equal(t, necklace.StockQuantity, productByName(t, "Layered Necklace").StockQuantity)
}

func TestRecordSaleValidation(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("cashier", "cashier123")

	ring := productByName(t, "Pearl Ring")
	bodies := []gin.H{
		{"cart": []gin.H{}},
		{},
		{"cart": []gin.H{{"id": ring.ID, "quantity": 0}}},
		{"cart": []gin.H{{"quantity": 1}}},
	}
	for _, body := range bodies {
		status, out := b.api(http.MethodPost, "/api/sales", body)
		assert.Equal(t, http.StatusBadRequest, status, "%v", body)
		assert.False(t, out.Success)
	}
}

func TestAdminCannotRecordSale(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("admin", "admin123")

	ring := productByName(t, "Pearl Ring")
	status, out := b.api(http.MethodPost, "/api/sales", gin.H{
		"cart": []gin.H{{"id": ring.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Permission denied.", out.Message)
}

func TestReceiptAccess(t *testing.T) {
	srv := newTestServer(t)
	_, err := auth.CreateUser(context.Background(), database.DB, "cashier2", "cashier456", models.RoleCashier)
	require.NoError(t, err)

	cashier := newBrowser(t, srv)
	cashier.login("cashier", "cashier123")

	ring := productByName(t, "Pearl Ring")
	status, out := cashier.api(http.MethodPost, "/api/sales", gin.H{
		"cart": []gin.H{{"id": ring.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, status)
	path := "/api/receipt/" + itoa(out.SaleID)

	resp := cashier.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "inline; filename=receipt_"+itoa(out.SaleID)+".pdf", resp.Header.Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix([]byte(readBody(t, resp)), []byte("%PDF-")))

	admin := newBrowser(t, srv)
	admin.login("admin", "admin123")
	resp = admin.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	other := newBrowser(t, srv)
	other.login("cashier2", "cashier456")
	status, body := other.api(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, body.Success)

	status, _ = admin.api(http.MethodGet, "/api/receipt/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReceiptSurvivesProductDeletion(t *testing.T) {
	srv := newTestServer(t)

	cashier := newBrowser(t, srv)
	cashier.login("cashier", "cashier123")
	ring := productByName(t, "Pearl Ring")
	_, out := cashier.api(http.MethodPost, "/api/sales", gin.H{
		"cart": []gin.H{{"id": ring.ID, "quantity": 1}},
	})

	admin := newBrowser(t, srv)
	admin.login("admin", "admin123")
	status, _ := admin.api(http.MethodDelete, "/api/products/"+itoa(ring.ID), nil)
	require.Equal(t, http.StatusOK, status)

	resp := admin.do(http.MethodGet, "/api/receipt/"+itoa(out.SaleID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.login("admin", "admin123")

	resp := b.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	status, _ := b.api(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

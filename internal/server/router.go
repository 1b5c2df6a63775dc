package server

import (
	"html/template"
	"io/fs"
	"net/http"

	"marco-pos/internal/config"
	"marco-pos/internal/database"
	"marco-pos/internal/handlers"
	"marco-pos/internal/middleware"
	"marco-pos/internal/models"
	"marco-pos/internal/receipt"
	"marco-pos/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	tmpl := template.Must(template.New("").ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.Use(middleware.LoadPrincipal(database.DB))

	// AUTH
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/logout", handlers.Logout)
	auth.GET("/", handlers.IndexPage)

	// DASHBOARDS
	auth.GET("/admin", middleware.RequireRole(models.RoleAdmin), handlers.AdminDashboard)
	auth.GET("/cashier", middleware.RequireRole(models.RoleCashier), handlers.CashierDashboard)

	// API
	api := auth.Group("/api")

	api.GET("/products", handlers.ListProducts)
	api.GET("/products/:id", handlers.GetProduct)

	admin := api.Group("", middleware.RequireRole(models.RoleAdmin))
	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)

	api.POST("/sales", middleware.RequireRole(models.RoleCashier), handlers.RecordSale)
	api.GET("/receipt/:sale_id", handlers.Receipt(receipt.Options{
		StoreName:      cfg.StoreName,
		CurrencySymbol: cfg.CurrencySymbol,
	}))

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}

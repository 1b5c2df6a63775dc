package handlers

import (
	"net/http"

	"marco-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

// IndexPage sends the user to the dashboard of their role.
func IndexPage(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	c.Redirect(http.StatusFound, p.Role.Dashboard())
}

func AdminDashboard(c *gin.Context) {
	render(c, http.StatusOK, "admin_dashboard.html", gin.H{"title": "Admin Dashboard"})
}

func CashierDashboard(c *gin.Context) {
	render(c, http.StatusOK, "cashier_dashboard.html", gin.H{"title": "Sales Dashboard"})
}

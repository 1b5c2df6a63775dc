package middleware

import (
	"net/http"
	"strings"

	"marco-pos/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const PermissionDenied = "You do not have permission to access this page."

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// RequireAuth rejects anonymous requests: pages are redirected to the
// login screen, API calls get 401 JSON.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentPrincipal(c) != nil {
			c.Next()
			return
		}
		if isAPI(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Login required.",
			})
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// RequireRole lets only the listed roles through. API calls get 403 JSON;
// pages redirect to the principal's own dashboard with a flash message.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	roleSet := map[models.Role]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			RequireAuth()(c)
			return
		}
		if _, ok := roleSet[p.Role]; ok {
			c.Next()
			return
		}

		if isAPI(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Permission denied.",
			})
			return
		}

		sess := sessions.Default(c)
		sess.AddFlash(PermissionDenied)
		_ = sess.Save()

		target := p.Role.Dashboard()
		if target == c.Request.URL.Path {
			target = "/login"
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

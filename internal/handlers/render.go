package handlers

import (
	"net/http"

	"marco-pos/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// render wraps c.HTML and passes the current user and pending flash
// messages to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if p := middleware.CurrentPrincipal(c); p != nil {
		data["CurrentUsername"] = p.Username
		data["CurrentUserRole"] = string(p.Role)
		data["IsAdmin"] = p.IsAdmin()
	}

	sess := sessions.Default(c)
	if flashes := sess.Flashes(); len(flashes) > 0 {
		data["Flashes"] = flashes
		_ = sess.Save()
	}

	c.HTML(status, tmpl, data)
}

// fail writes the JSON error body used by every API endpoint.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func ok(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// internalError logs err against the request and answers with a generic
// message so storage details never reach the client.
func internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, message)
}

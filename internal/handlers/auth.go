package handlers

import (
	"errors"
	"net/http"
	"strings"

	"marco-pos/internal/auth"
	"marco-pos/internal/database"
	"marco-pos/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func ShowLogin(c *gin.Context) {
	if p := middleware.CurrentPrincipal(c); p != nil {
		c.Redirect(http.StatusFound, p.Role.Dashboard())
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"title": "Sign In"})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the JSON credentials and starts a session.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid username or password")
		return
	}

	user, err := auth.Authenticate(c.Request.Context(), database.DB, strings.TrimSpace(req.Username), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		fail(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		internalError(c, "Login failed.", err)
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(middleware.SessionUserID, user.ID)
	if err := sess.Save(); err != nil {
		internalError(c, "Login failed.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    string(user.Role),
	})
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}

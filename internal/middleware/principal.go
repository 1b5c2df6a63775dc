package middleware

import (
	"errors"

	"marco-pos/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SessionUserID = "user_id"
	principalKey  = "principal"
)

// Principal is the authenticated user of the current request.
type Principal struct {
	UserID   uint
	Username string
	Role     models.Role
}

func (p *Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// LoadPrincipal resolves the session's user id against the users table on
// every request. A session pointing at a missing user is cleared.
func LoadPrincipal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			var user models.User
			err := db.WithContext(c.Request.Context()).First(&user, uid).Error
			switch {
			case err == nil && user.Role.Valid():
				c.Set(principalKey, &Principal{
					UserID:   user.ID,
					Username: user.Username,
					Role:     user.Role,
				})
			case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
				sess.Clear()
				_ = sess.Save()
			default:
				zap.L().Error("failed to load session user", zap.Uint("user_id", uid), zap.Error(err))
			}
		}

		c.Next()
	}
}

// CurrentPrincipal returns the request's principal, or nil when anonymous.
func CurrentPrincipal(c *gin.Context) *Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}

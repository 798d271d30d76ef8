package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/utils"
)

// SessionCookieName is the httpOnly cookie set by the login handler.
const SessionCookieName = "session"

const contextUserKey = "session_user"

// SessionAuth reads and verifies the session cookie, rejecting the request
// when it is missing or invalid. The parsed user lands in the gin context.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Oturum bulunamadı"})
			c.Abort()
			return
		}

		user, err := utils.ParseSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Oturum geçersiz veya süresi dolmuş"})
			c.Abort()
			return
		}

		c.Set(contextUserKey, *user)
		c.Next()
	}
}

// RequireAdmin must run after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok || user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Bu işlem için yetkiniz yok"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser returns the session user placed in the context by SessionAuth.
func GetUser(c *gin.Context) (models.SessionUser, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return models.SessionUser{}, false
	}
	user, ok := v.(models.SessionUser)
	return user, ok
}

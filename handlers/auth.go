package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/services"
	"github.com/globaltripmarket/finance-api/utils"
)

// ============================================================================
// AUTH HANDLER
// ============================================================================
// Development-grade authentication: a fixed pair of mock users plus,
// when the user store is configured, the users the admin created there.
// Real session security is explicitly out of scope; the session cookie is
// a signed JWT so /auth/me works without server-side session state.
// ============================================================================

// Mock users, available whenever mock auth is enabled.
var mockUsers = map[string]struct {
	ID          string
	Password    string
	Role        string
	DisplayName string
}{
	"admin": {ID: "1", Password: "admin", Role: models.RoleAdmin, DisplayName: "Yönetici"},
	"user":  {ID: "2", Password: "user", Role: models.RoleWorker, DisplayName: "Personel"},
}

type AuthHandler struct {
	Users       *services.UserService // nil when DATABASE_URL is not set
	MockEnabled bool
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.MockEnabled && h.Users == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "message": "Auth endpoint not implemented"})
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Invalid request"})
		return
	}

	user := h.authenticate(req.Username, req.Password)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Kullanıcı adı veya şifre hatalı"})
		return
	}

	token, err := utils.GenerateSessionToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(utils.SessionDuration.Seconds()), "/", "", false, true)

	h.recordActivity(*user, models.ActionLogin, "")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// authenticate tries the user store first, then the mock users.
func (h *AuthHandler) authenticate(username, password string) *models.SessionUser {
	if h.Users != nil {
		if dbUser, err := h.Users.Authenticate(username, password); err == nil {
			return &models.SessionUser{
				ID:          dbUser.ID,
				Username:    dbUser.Username,
				DisplayName: dbUser.DisplayName,
				Role:        dbUser.Role,
			}
		}
	}

	if !h.MockEnabled {
		return nil
	}
	mock, ok := mockUsers[normalizeUsername(username)]
	if !ok || mock.Password != password {
		return nil
	}
	return &models.SessionUser{
		ID:          mock.ID,
		Username:    normalizeUsername(username),
		DisplayName: mock.DisplayName,
		Role:        mock.Role,
	}
}

func (h *AuthHandler) Me(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, models.MeResponse{Authenticated: false})
		return
	}

	user, err := utils.ParseSessionToken(token)
	if err != nil {
		c.JSON(http.StatusOK, models.MeResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, models.MeResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if user, err := utils.ParseSessionToken(token); err == nil {
			h.recordActivity(*user, models.ActionLogout, "")
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// recordActivity appends to the audit trail when the store is available.
// An audit failure never fails the user-facing action.
func (h *AuthHandler) recordActivity(user models.SessionUser, action, detail string) {
	if h.Users == nil {
		return
	}
	if err := h.Users.RecordActivity(user, action, detail); err != nil {
		log.Printf("⚠️ Failed to record %s activity: %v", action, err)
	}
}

func normalizeUsername(username string) string {
	// Mock usernames are ASCII; a plain lowering is enough here.
	out := make([]byte, len(username))
	for i := 0; i < len(username); i++ {
		ch := username[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

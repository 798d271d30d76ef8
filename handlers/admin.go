package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/services"
)

// ============================================================================
// ADMIN HANDLER - user management + activity audit
// ============================================================================

type AdminHandler struct {
	Users *services.UserService // nil when DATABASE_URL is not set
}

// guard responds 503 when the user store is not configured. The rest of the
// API keeps working without a database; only admin management needs one.
func (h *AdminHandler) guard(c *gin.Context) bool {
	if h.Users == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kullanıcı deposu yapılandırılmamış"})
		return false
	}
	return true
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !h.guard(c) {
		return
	}

	var isActive *bool
	if v := c.Query("is_active"); v != "" && v != "all" {
		b := v == "true"
		isActive = &b
	}

	list, err := h.Users.List(
		c.Query("search"),
		c.Query("role"),
		isActive,
		intQuery(c, "page", 1),
		intQuery(c, "limit", 20),
	)
	if err != nil {
		log.Printf("❌ User list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	if !h.guard(c) {
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, _ := middleware.GetUser(c)
	user, err := h.Users.Create(req, admin.Username)
	if err == services.ErrUsernameTaken {
		c.JSON(http.StatusConflict, gin.H{"error": "Bu kullanıcı adı zaten kayıtlı"})
		return
	}
	if err != nil {
		log.Printf("❌ User creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.recordActivity(admin, models.ActionUserCreate, user.Username)
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	if !h.guard(c) {
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.Param("id")
	err := h.Users.ResetPassword(userID, req.NewPassword)
	if err == services.ErrUserNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kullanıcı bulunamadı"})
		return
	}
	if err != nil {
		log.Printf("❌ Password reset failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	admin, _ := middleware.GetUser(c)
	h.recordActivity(admin, models.ActionPasswordReset, userID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ToggleActive(c *gin.Context) {
	if !h.guard(c) {
		return
	}

	var req models.ToggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.Param("id")
	err := h.Users.SetActive(userID, *req.IsActive)
	if err == services.ErrUserNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kullanıcı bulunamadı"})
		return
	}
	if err != nil {
		log.Printf("❌ Active toggle failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	admin, _ := middleware.GetUser(c)
	h.recordActivity(admin, models.ActionUserToggle, userID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ListActivity(c *gin.Context) {
	if !h.guard(c) {
		return
	}

	list, err := h.Users.Activity(
		c.Query("user_id"),
		c.Query("action"),
		dateQuery(c, "from"),
		dateQuery(c, "to"),
		intQuery(c, "page", 1),
		intQuery(c, "limit", 50),
	)
	if err != nil {
		log.Printf("❌ Activity list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) recordActivity(user models.SessionUser, action, detail string) {
	if err := h.Users.RecordActivity(user, action, detail); err != nil {
		log.Printf("⚠️ Failed to record %s activity: %v", action, err)
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func dateQuery(c *gin.Context, key string) time.Time {
	v := c.Query(key)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

package models

import "time"

// ============================================================================
// USER MODEL
// ============================================================================

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

// SessionUser is what gets stored in the session cookie and echoed by /auth/me.
type SessionUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MeResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}

// ============================================================================
// USER MANAGEMENT
// ============================================================================

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=admin worker"`
	Password    string `json:"password" binding:"required,min=4"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=4"`
}

type ToggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type UserList struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

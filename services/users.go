package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/utils"
)

// ============================================================================
// USER & ACTIVITY STORE
// ============================================================================

var ErrUserNotFound = fmt.Errorf("user not found")
var ErrUsernameTaken = fmt.Errorf("username already taken")

type UserService struct {
	DB *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{DB: db}
}

// Authenticate checks a username/password pair against the store. Inactive
// users cannot log in.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow(`
		SELECT id, username, display_name, role, password_hash, is_active, created_at, COALESCE(created_by, '')
		FROM users
		WHERE username = $1
	`, strings.ToLower(username)).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Role,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.CreatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// List returns users matching the admin page filters, newest first.
func (s *UserService) List(search, role string, isActive *bool, page, limit int) (*models.UserList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	where := []string{"1=1"}
	args := []any{}

	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, fmt.Sprintf("(LOWER(username) LIKE $%d OR LOWER(display_name) LIKE $%d)", len(args), len(args)))
	}
	if role != "" && role != "all" {
		args = append(args, role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if isActive != nil {
		args = append(args, *isActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("user count: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.DB.Query(fmt.Sprintf(`
		SELECT id, username, display_name, role, is_active, created_at, COALESCE(created_by, '')
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("user query: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt, &u.CreatedBy); err != nil {
			return nil, fmt.Errorf("user scan: %w", err)
		}
		users = append(users, u)
	}

	return &models.UserList{Users: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *UserService) Create(req models.CreateUserRequest, createdBy string) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var exists bool
	if err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("username check: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    true,
		CreatedAt:   time.Now(),
		CreatedBy:   createdBy,
	}

	_, err = s.DB.Exec(`
		INSERT INTO users (id, username, display_name, role, password_hash, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Username, user.DisplayName, user.Role, hash, user.IsActive, user.CreatedAt, user.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

func (s *UserService) ResetPassword(userID, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	result, err := s.DB.Exec("UPDATE users SET password_hash = $1 WHERE id = $2", hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) SetActive(userID string, isActive bool) error {
	result, err := s.DB.Exec("UPDATE users SET is_active = $1 WHERE id = $2", isActive, userID)
	if err != nil {
		return fmt.Errorf("update active flag: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ============================================================================
// ACTIVITY AUDIT TRAIL
// ============================================================================

// RecordActivity appends an audit entry. Failures are logged by the caller
// and never block the action being recorded.
func (s *UserService) RecordActivity(user models.SessionUser, action, detail string) error {
	_, err := s.DB.Exec(`
		INSERT INTO activity_log (id, user_id, user_name, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), user.ID, user.DisplayName, action, detail, time.Now())
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Activity lists audit entries with the admin page filters, newest first.
func (s *UserService) Activity(userID, action string, from, to time.Time, page, limit int) (*models.ActivityList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	where := []string{"1=1"}
	args := []any{}

	if userID != "" {
		args = append(args, userID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if action != "" && action != "all" {
		args = append(args, action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM activity_log WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("activity count: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.DB.Query(fmt.Sprintf(`
		SELECT id, user_id, user_name, action, COALESCE(detail, ''), created_at
		FROM activity_log
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("activity query: %w", err)
	}
	defer rows.Close()

	entries := []models.ActivityEntry{}
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		entries = append(entries, e)
	}

	return &models.ActivityList{Entries: entries, Total: total, Page: page, Limit: limit}, nil
}

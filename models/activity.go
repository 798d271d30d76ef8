package models

import "time"

// ActivityEntry is one row of the admin audit trail. Financial data itself
// lives behind the webhook; this only records who did what on this API.
type ActivityEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorded actions.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionTransactionAdd = "transaction_add"
	ActionExport         = "export"
	ActionAIQuery        = "ai_query"
	ActionUserCreate     = "user_create"
	ActionPasswordReset  = "password_reset"
	ActionUserToggle     = "user_toggle"
)

type ActivityList struct {
	Entries []ActivityEntry `json:"entries"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

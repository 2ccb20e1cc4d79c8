package model

import "time"

// Activity action constants.
const (
	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRefresh        = "refresh_token"
	ActionChangePassword = "change_password"
	ActionRoleUpdate     = "role_update"
	ActionPlateAdd       = "plate_add"
)

// ActivityLog records a user action for the audit trail.
type ActivityLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

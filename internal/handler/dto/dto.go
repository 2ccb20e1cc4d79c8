// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"time"

	"github.com/tiw25999/license-plate-system/internal/model"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine code and human message of an error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// AddPlateRequest is the payload for recording a sighting.
type AddPlateRequest struct {
	PlateNumber string `json:"plate_number"`
	Timestamp   string `json:"timestamp,omitempty"` // DD/MM/YYYY HH:MM:SS
	Province    string `json:"province,omitempty"`
	CameraID    string `json:"id_camera,omitempty"`
	CameraName  string `json:"camera_name,omitempty"`
}

// AddPlateResponse confirms a stored sighting.
type AddPlateResponse struct {
	Status string              `json:"status"`
	Plate  model.PlateResponse `json:"data"`
}

// PlateListResponse wraps a list of sightings.
type PlateListResponse struct {
	Plates []model.PlateResponse `json:"plates"`
	Count  int                   `json:"count"`
}

// ToPlateListResponse converts sightings into the response form.
func ToPlateListResponse(plates []*model.Plate, loc *time.Location) PlateListResponse {
	out := make([]model.PlateResponse, 0, len(plates))
	for _, p := range plates {
		out = append(out, p.ToResponse(loc))
	}
	return PlateListResponse{Plates: out, Count: len(out)}
}

// StatsResponse reports aggregate counts for the dashboard.
type StatsResponse struct {
	TotalPlates int64 `json:"total_plates"`
}

// SignupRequest is the payload for registering an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries issued tokens plus the account's public info.
type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	User         model.UserInfo `json:"user"`
}

// RefreshRequest is the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries a rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LogoutRequest is the payload for revoking a session.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest is the payload for rotating a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateRoleRequest is the admin payload for changing a user's role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UserListResponse wraps the admin user listing.
type UserListResponse struct {
	Users []model.UserInfo `json:"users"`
	Count int              `json:"count"`
}

// ToUserListResponse converts users to their public form.
func ToUserListResponse(users []*model.User) UserListResponse {
	out := make([]model.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToInfo())
	}
	return UserListResponse{Users: out, Count: len(out)}
}

// ActivityLogListResponse wraps the admin audit trail listing.
type ActivityLogListResponse struct {
	Logs  []*model.ActivityLog `json:"logs"`
	Count int                  `json:"count"`
}

// MessageResponse is a generic status message.
type MessageResponse struct {
	Message string `json:"message"`
}

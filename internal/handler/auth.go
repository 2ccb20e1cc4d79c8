package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/handler/dto"
	"github.com/tiw25999/license-plate-system/internal/middleware"
	"github.com/tiw25999/license-plate-system/internal/service"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusCreated, user.ToInfo())
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, pair, err := h.svc.Login(r.Context(), service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		User:         user.ToInfo(),
	})
}

// Refresh handles POST /auth/refresh_token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "refresh_token is required")
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "refresh_token is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), req.RefreshToken, userID, middleware.ClientIP(r), r.UserAgent()); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Me handles GET /auth/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := authContext(r)
	if caller == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.svc.GetUser(r.Context(), caller.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToInfo())
}

// ChangePassword handles POST /auth/change_password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller := authContext(r)
	if caller == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	err := h.svc.ChangePassword(r.Context(), caller.UserID, req.OldPassword, req.NewPassword,
		middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("password_changed", "user_id", caller.UserID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "password changed"})
}

// ListUsers handles GET /auth/users. Admin only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// ListActivityLogs handles GET /auth/activity_logs. Admin only.
func (h *AuthHandler) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_USER_ID", "user_id is required")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		limit = parsed
	}

	logs, err := h.svc.ListActivityLogs(r.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ActivityLogListResponse{Logs: logs, Count: len(logs)})
}

// UpdateRole handles PUT /auth/users/role. Admin only.
func (h *AuthHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	caller := authContext(r)
	if caller == nil {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "user_id and role are required")
		return
	}

	user, err := h.svc.UpdateUserRole(r.Context(), caller.UserID, req.UserID, req.Role,
		middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("role_updated",
		"actor_id", caller.UserID,
		"user_id", user.ID,
		"role", user.Role,
	)

	writeJSON(w, http.StatusOK, user.ToInfo())
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, service.ErrInvalidRole):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		h.writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	case errors.Is(err, service.ErrInvalidRefresh):
		h.writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	case errors.Is(err, service.ErrWrongPassword):
		h.writeError(w, http.StatusUnauthorized, "WRONG_PASSWORD", "Current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

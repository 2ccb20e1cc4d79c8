package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiw25999/license-plate-system/internal/activity"
	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/metrics"
	"github.com/tiw25999/license-plate-system/internal/model"
	"github.com/tiw25999/license-plate-system/internal/repository"
)

// Auth service errors.
var (
	ErrInvalidUsername    = errors.New("username must be 3-50 characters, alphanumeric with . _ -")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const minPasswordLength = 8

// AuthService handles accounts, sessions and tokens.
type AuthService struct {
	repo     *repository.Repository
	tokens   *auth.TokenIssuer
	activity *activity.Publisher
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, tokens *auth.TokenIssuer, publisher *activity.Publisher, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		activity: publisher,
		logger:   logger,
		metrics:  recorder,
	}
}

// SignupInput defines input for registering a user.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// Signup registers a new member account.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           "u_" + ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleMember,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.metrics.IncSignup()
	s.publishEvent(user.ID, model.ActionSignup, "สมัครสมาชิก: "+username, input.IPAddress, input.UserAgent)

	return user, nil
}

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// LoginInput defines input for authenticating a user.
type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// Login authenticates a user and opens a refresh session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*model.User, *TokenPair, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn comparable time so missing users are not distinguishable.
			auth.VerifyPassword(input.Password, "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
			s.metrics.IncLogin("failed")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		s.metrics.IncLogin("failed")
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, nil, err
	}

	s.metrics.IncLogin("success")
	s.publishEvent(user.ID, model.ActionLogin, "เข้าสู่ระบบ: "+user.Username, input.IPAddress, input.UserAgent)

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The old session is revoked and a new one created (rotation).
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	session, err := s.repo.GetSessionByTokenHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !session.IsActive(time.Now()) {
		return nil, ErrInvalidRefresh
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if err := s.repo.RevokeSession(ctx, session.ID); err != nil {
		return nil, err
	}

	pair, err := s.openSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	s.metrics.IncTokenRefresh()
	s.publishEvent(user.ID, model.ActionRefresh, "ต่ออายุโทเคน: "+user.Username, ipAddress, userAgent)

	return pair, nil
}

// Logout revokes the session behind a refresh token. Unknown or already
// revoked tokens are not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken, userID, ipAddress, userAgent string) error {
	session, err := s.repo.GetSessionByTokenHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.RevokeSession(ctx, session.ID); err != nil {
		return err
	}

	if userID == "" {
		userID = session.UserID
	}
	s.publishEvent(userID, model.ActionLogout, "ออกจากระบบ", ipAddress, userAgent)

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password, stores a new hash and
// revokes every open session so stolen refresh tokens die with it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, ipAddress, userAgent string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.repo.RevokeUserSessions(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	s.publishEvent(userID, model.ActionChangePassword, "เปลี่ยนรหัสผ่าน", ipAddress, userAgent)

	return nil
}

// ListActivityLogs returns a user's recent audit trail, newest first.
// Admin only; enforced at the router.
func (s *AuthService) ListActivityLogs(ctx context.Context, userID string, limit int) ([]*model.ActivityLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.ListActivityLogs(ctx, userID, limit)
}

// ListUsers returns all accounts. Admin only; enforced at the router.
func (s *AuthService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUserRole changes a user's role. Admin only; enforced at the router.
func (s *AuthService) UpdateUserRole(ctx context.Context, actorID, userID, role, ipAddress, userAgent string) (*model.User, error) {
	if !model.RoleIsValid(role) {
		return nil, ErrInvalidRole
	}

	if err := s.repo.UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(actorID, model.ActionRoleUpdate, "เปลี่ยนสิทธิ์ "+user.Username+" เป็น "+role, ipAddress, userAgent)

	return user, nil
}

// openSession mints a token pair and stores the refresh session.
func (s *AuthService) openSession(ctx context.Context, user *model.User, ipAddress, userAgent string) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        "sess_" + ulid.Make().String(),
		UserID:    user.ID,
		TokenHash: auth.HashToken(refreshToken),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTTL()).UTC(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) publishEvent(userID, action, description, ipAddress, userAgent string) {
	if s.activity == nil || userID == "" {
		return
	}
	s.activity.PublishAsync(activity.EventPayload{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		OccurredAt:  time.Now().UnixMilli(),
	})
}

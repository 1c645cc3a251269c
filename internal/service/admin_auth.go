package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
	"github.com/tmanorigins/tman-server/internal/id"
	"github.com/tmanorigins/tman-server/internal/store"
)

// ForgotPasswordAck is returned for every forgot-password request, whether or not the email
// belongs to an admin.
const ForgotPasswordAck = "If that email exists, a reset link has been sent."

// touchInterval limits how often an active session's last-seen time is written.
const touchInterval = time.Minute

// errBadCredentials is shared by every login failure so responses never reveal which part was wrong.
var errBadCredentials = domainerrors.InvalidCredentials("Invalid email or password")

// dummyHash is verified against when the email is unknown so both paths cost the same.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("timing-equalizer")
	return h
})

// AdminAuthOptions configures session and reset token lifetimes.
type AdminAuthOptions struct {
	SessionDuration    time.Duration
	ResetTokenDuration time.Duration
}

// LoginRequest contains admin credentials and client details recorded on the session.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,max=320"`
	Password  string `json:"password" validate:"required,max=1024"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult is a successful login: the admin, the session token and when it expires.
type LoginResult struct {
	Admin     *domain.Admin
	Session   *domain.Session
	Token     string
	ExpiresAt time.Time
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// AdminAuthService handles admin login, sessions and password resets.
type AdminAuthService struct {
	store  store.AdminStore
	tokens *auth.TokenService
	opts   AdminAuthOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminAuthService creates a new admin authentication service.
func NewAdminAuthService(store store.AdminStore, tokens *auth.TokenService, opts AdminAuthOptions, logger *slog.Logger) *AdminAuthService {
	return &AdminAuthService{
		store:  store,
		tokens: tokens,
		opts:   opts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies credentials and opens a new session.
func (s *AdminAuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, domainerrors.Validation("Email and password are required")
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	admin, err := s.store.GetAdminByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		auth.VerifyPassword(dummyHash(), req.Password)
		s.logger.Info("admin login failed", "reason", "unknown email")
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if !auth.VerifyPassword(admin.PasswordHash, req.Password) {
		s.logger.Info("admin login failed", "admin_id", admin.ID, "reason", "wrong password")
		return nil, errBadCredentials
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:         sessionID,
		AdminID:    admin.ID,
		ExpiresAt:  now.Add(s.opts.SessionDuration),
		CreatedAt:  now,
		LastSeenAt: now,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token := s.tokens.GenerateSessionToken(admin, session.ID, session.ExpiresAt)

	s.logger.Info("admin logged in", "admin_id", admin.ID, "session_id", session.ID)
	return &LoginResult{
		Admin:     admin,
		Session:   session,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Authenticate resolves a session token to its admin and live session. Any failure is
// reported as unauthorized.
func (s *AdminAuthService) Authenticate(ctx context.Context, token string) (*domain.Admin, *domain.Session, error) {
	claims, err := s.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid session")
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("session has ended")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if session.AdminID != claims.AdminID {
		return nil, nil, domainerrors.Unauthorized("invalid session")
	}

	now := s.now()
	if session.IsExpired(now) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.Unauthorized("session expired")
	}

	admin, err := s.store.GetAdmin(ctx, session.AdminID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("invalid session")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load admin: %w", err)
	}

	if now.Sub(session.LastSeenAt) >= touchInterval {
		if err := s.store.TouchSession(ctx, session.ID, now); err != nil {
			s.logger.Warn("failed to touch session", "session_id", session.ID, "error", err)
		} else {
			session.LastSeenAt = now
		}
	}

	return admin, session, nil
}

// Logout ends a session. Ending an unknown session succeeds.
func (s *AdminAuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("admin logged out", "session_id", sessionID)
	return nil
}

// ForgotPassword issues a reset token when email belongs to an admin. The token is logged,
// since no mail transport is configured. The returned acknowledgement never depends on whether
// the email is registered, and internal failures are logged rather than returned.
func (s *AdminAuthService) ForgotPassword(ctx context.Context, email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ForgotPasswordAck
	}

	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("forgot password lookup failed", "error", err)
		}
		return ForgotPasswordAck
	}

	token, hash := auth.NewResetToken()
	now := s.now()
	reset := &domain.PasswordReset{
		TokenHash: hash,
		AdminID:   admin.ID,
		ExpiresAt: now.Add(s.opts.ResetTokenDuration),
		CreatedAt: now,
	}
	if err := s.store.CreatePasswordReset(ctx, reset); err != nil {
		s.logger.Error("failed to store password reset", "admin_id", admin.ID, "error", err)
		return ForgotPasswordAck
	}

	s.logger.Info("password reset requested",
		"admin_id", admin.ID,
		"reset_token", token,
		"expires_at", reset.ExpiresAt,
	)
	return ForgotPasswordAck
}

// ResetPassword consumes a reset token, sets the new password and ends every session of the admin.
func (s *AdminAuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	invalid := domainerrors.Validation("reset link is invalid or has expired")

	reset, err := s.store.ConsumePasswordReset(ctx, auth.HashResetToken(strings.TrimSpace(req.Token)))
	if errors.Is(err, store.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if reset.IsExpired(s.now()) {
		return invalid
	}

	admin, err := s.store.GetAdmin(ctx, reset.AdminID)
	if errors.Is(err, store.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin.PasswordHash = hash
	admin.Touch()
	if err := s.store.UpdateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}

	revoked, err := s.store.DeleteAdminSessions(ctx, admin.ID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("admin password reset", "admin_id", admin.ID, "sessions_revoked", revoked)
	return nil
}

// SeedAdmin creates an admin account unless one with the email already exists.
// It reports whether an account was created.
func (s *AdminAuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var("email", email, "required,email"); err != nil {
		return false, err
	}

	if _, err := s.store.GetAdminByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	adminID, err := id.Generate(id.PrefixAdmin)
	if err != nil {
		return false, fmt.Errorf("generate admin ID: %w", err)
	}

	admin := &domain.Admin{
		Record:       domain.Record{ID: adminID},
		Email:        email,
		PasswordHash: hash,
	}
	admin.InitTimestamps()

	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin account seeded", "admin_id", admin.ID, "email", admin.Email)
	return true, nil
}

// CleanupExpired removes expired sessions and reset tokens.
func (s *AdminAuthService) CleanupExpired(ctx context.Context) (sessions, resets int, err error) {
	now := s.now()
	if sessions, err = s.store.DeleteExpiredSessions(ctx, now); err != nil {
		return 0, 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if resets, err = s.store.DeleteExpiredPasswordResets(ctx, now); err != nil {
		return sessions, 0, fmt.Errorf("delete expired resets: %w", err)
	}
	return sessions, resets, nil
}

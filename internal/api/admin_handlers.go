package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminMe",
		Method:      http.MethodGet,
		Path:        "/api/admin/me",
		Summary:     "Current admin",
		Description: "Reports whether the request carries a valid admin session. Never creates one.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleAdminMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminLogin",
		Method:      http.MethodPost,
		Path:        "/api/admin/login",
		Summary:     "Log in",
		Description: "Verifies admin credentials and sets the session cookie",
		Tags:        []string{"Admin"},
	}, s.handleAdminLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminLogout",
		Method:      http.MethodPost,
		Path:        "/api/admin/logout",
		Summary:     "Log out",
		Description: "Ends the current session and clears the cookie. Always succeeds.",
		Tags:        []string{"Admin"},
	}, s.handleAdminLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminForgotPassword",
		Method:      http.MethodPost,
		Path:        "/api/admin/forgot",
		Summary:     "Forgot password",
		Description: "Requests a password reset. The response is identical whether or not the email is registered.",
		Tags:        []string{"Admin"},
	}, s.handleAdminForgot)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminResetPassword",
		Method:      http.MethodPost,
		Path:        "/api/admin/reset",
		Summary:     "Reset password",
		Description: "Consumes a reset token, sets a new password and ends every session of the admin",
		Tags:        []string{"Admin"},
	}, s.handleAdminReset)
}

// === DTOs ===

// AdminResponse describes the authenticated admin.
type AdminResponse struct {
	ID        string    `json:"id" doc:"Admin ID"`
	Email     string    `json:"email" doc:"Admin email"`
	ExpiresAt time.Time `json:"expiresAt,omitzero" doc:"When the current session expires"`
}

// AdminOutput wraps the admin response for Huma.
type AdminOutput struct {
	Body AdminResponse
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" doc:"Admin email"`
	Password string `json:"password" doc:"Admin password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	UserAgent string `header:"User-Agent"`
	Body      LoginRequest
}

// LoginOutput sets the session cookie and returns the admin.
type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AdminResponse
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable acknowledgement"`
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// ForgotPasswordInput is the request body for a reset request.
type ForgotPasswordInput struct {
	Body struct {
		Email string `json:"email" doc:"Admin email"`
	}
}

// MessageOutput wraps an acknowledgement for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// ResetPasswordInput is the request body for consuming a reset token.
type ResetPasswordInput struct {
	Body struct {
		Token    string `json:"token" doc:"Reset token"`
		Password string `json:"password" doc:"New password, at least 8 characters"`
	}
}

// === Handlers ===

func (s *Server) handleAdminMe(ctx context.Context, _ *struct{}) (*AdminOutput, error) {
	admin, err := RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminOutput{Body: newAdminResponse(admin, currentSession(ctx))}, nil
}

func (s *Server) handleAdminLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		IPAddress: clientIP(ctx),
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SetCookie: s.sessionCookie(result.Token, result.ExpiresAt),
		Body:      newAdminResponse(result.Admin, result.Session),
	}, nil
}

func (s *Server) handleAdminLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if session := currentSession(ctx); session != nil {
		if err := s.services.Auth.Logout(ctx, session.ID); err != nil {
			s.logger.Warn("logout failed", "session_id", session.ID, "error", err)
		}
	}

	return &LogoutOutput{
		SetCookie: s.clearedSessionCookie(),
		Body:      MessageResponse{Message: "Logged out"},
	}, nil
}

func (s *Server) handleAdminForgot(ctx context.Context, input *ForgotPasswordInput) (*MessageOutput, error) {
	return &MessageOutput{Body: MessageResponse{
		Message: s.services.Auth.ForgotPassword(ctx, input.Body.Email),
	}}, nil
}

func (s *Server) handleAdminReset(ctx context.Context, input *ResetPasswordInput) (*MessageOutput, error) {
	err := s.services.Auth.ResetPassword(ctx, service.ResetPasswordRequest{
		Token:    input.Body.Token,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Password updated. Please log in again."}}, nil
}

func newAdminResponse(admin *domain.Admin, session *domain.Session) AdminResponse {
	resp := AdminResponse{ID: admin.ID, Email: admin.Email}
	if session != nil {
		resp.ExpiresAt = session.ExpiresAt
	}
	return resp
}

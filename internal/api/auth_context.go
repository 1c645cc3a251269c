package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

// SessionCookieName is the HttpOnly cookie that carries the admin session token.
const SessionCookieName = "tman_session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	adminKey    ctxKey = "admin"
	sessionKey  ctxKey = "session"
	clientIPKey ctxKey = "client_ip"
)

// sessionMiddleware resolves the session cookie, when present and valid, into the request
// context. Requests without a valid session continue anonymously; handlers call RequireAdmin.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey, r.RemoteAddr)

		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			admin, session, err := s.services.Auth.Authenticate(ctx, cookie.Value)
			if err == nil {
				ctx = context.WithValue(ctx, adminKey, admin)
				ctx = context.WithValue(ctx, sessionKey, session)
			} else if !domainerrors.Is(err, domainerrors.ErrUnauthorized) {
				s.logger.Warn("session lookup failed", "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin returns the authenticated admin, or a 401 error when the request has no
// valid session.
func RequireAdmin(ctx context.Context) (*domain.Admin, error) {
	admin, ok := ctx.Value(adminKey).(*domain.Admin)
	if !ok || admin == nil {
		return nil, domainerrors.Unauthorized("Authentication required")
	}
	return admin, nil
}

// currentSession returns the session resolved for this request, if any.
func currentSession(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// sessionCookie builds the cookie that stores token until expiresAt.
func (s *Server) sessionCookie(token string, expiresAt time.Time) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearedSessionCookie expires the session cookie in the browser.
func (s *Server) clearedSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

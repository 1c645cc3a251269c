package domain

import "time"

// Admin is a back-office staff account.
type Admin struct {
	Record
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Session is a server-side admin login. The session cookie carries a token naming it.
type Session struct {
	ID         string
	AdminID    string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastSeenAt time.Time
	IPAddress  string
	UserAgent  string
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PasswordReset is a one-time token allowing an admin to choose a new password.
// Only the hash of the token is stored.
type PasswordReset struct {
	TokenHash string
	AdminID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the reset token has expired at now.
func (r *PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

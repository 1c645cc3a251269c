package auth

import "time"

// SessionClaims are the claims carried in an admin session token.
// v4.local tokens are encrypted, so the claims are not readable by the browser.
type SessionClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	// SessionID names the server-side session row; logging out deletes it and the token
	// stops working even before it expires.
	SessionID string `json:"jti"`
}

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/tmanorigins/tman-server/internal/domain"
)

const (
	tokenIssuer   = "tman-server"
	tokenAudience = "tman-admin"
)

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{symmetricKey: symmetricKey}, nil
}

// GenerateSessionToken creates an encrypted token naming the session that backs it.
func (s *TokenService) GenerateSessionToken(admin *domain.Admin, sessionID string, expiresAt time.Time) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(admin.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetJti(sessionID)

	//nolint:errcheck // Set only fails for values that cannot be marshalled
	_ = token.Set("admin_id", admin.ID)
	//nolint:errcheck // Set only fails for values that cannot be marshalled
	_ = token.Set("email", admin.Email)

	return token.V4Encrypt(s.symmetricKey, nil)
}

// VerifySessionToken decrypts a session token and checks its issuer, audience and lifetime.
func (s *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.SessionID == "" || claims.AdminID == "" {
		return nil, fmt.Errorf("invalid token: missing session claims")
	}

	return &claims, nil
}

// NewResetToken returns a random single-use password reset token and the hash to store for it.
func NewResetToken() (token, hash string) {
	token = uuid.NewString()
	return token, HashResetToken(token)
}

// HashResetToken returns the stored form of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

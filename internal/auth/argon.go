package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// MaxPasswordLength bounds the input to the hash function so oversized passwords cannot
// be used to burn CPU and memory.
const MaxPasswordLength = 1024

// ErrPasswordEmpty and ErrPasswordTooLong are returned by HashPassword for unusable input.
var (
	ErrPasswordEmpty   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

// PasswordParams are the argon2id cost parameters encoded into every hash.
type PasswordParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  int
	KeyLength   uint32
}

// DefaultPasswordParams is used for all new hashes. Existing hashes carry their own parameters,
// so raising these later does not invalidate stored passwords.
var DefaultPasswordParams = PasswordParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword returns a PHC-formatted argon2id hash of password using DefaultPasswordParams.
func HashPassword(password string) (string, error) {
	return DefaultPasswordParams.Hash(password)
}

// Hash returns a PHC-formatted argon2id hash of password.
func (p PasswordParams) Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrPasswordEmpty
	case len(password) > MaxPasswordLength:
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encodedHash.
// Malformed hashes never match; the reason is not exposed to callers.
func VerifyPassword(encodedHash, password string) bool {
	if password == "" || len(password) > MaxPasswordLength {
		return false
	}

	p, salt, want, err := parseHash(encodedHash)
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(want, got) == 1
}

// parseHash splits "$argon2id$v=19$m=..,t=..,p=..$salt$key" into its parts.
func parseHash(encoded string) (p PasswordParams, salt, key []byte, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return p, nil, nil, errors.New("invalid hash format")
	}
	if fields[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("unsupported algorithm: %s", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return p, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return p, nil, nil, fmt.Errorf("invalid key encoding: %w", err)
	}
	if len(key) == 0 {
		return p, nil, nil, errors.New("empty key")
	}

	p.SaltLength = len(salt)
	p.KeyLength = uint32(len(key)) //nolint:gosec // bounded by the decoded hash length
	return p, salt, key, nil
}

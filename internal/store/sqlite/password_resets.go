package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

// CreatePasswordReset stores the hash of a reset token.
func (s *Store) CreatePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token_hash, admin_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		reset.TokenHash,
		reset.AdminID,
		formatTime(reset.ExpiresAt),
		formatTime(reset.CreatedAt),
	)
	if isUniqueViolation(err, "password_resets.token_hash") {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// ConsumePasswordReset deletes the token and returns it, so each token works at most once.
// Returns store.ErrResetNotFound if the token is unknown or already used.
func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var expiresAt, createdAt string
		err := tx.QueryRowContext(ctx, `
			SELECT token_hash, admin_id, expires_at, created_at
			FROM password_resets WHERE token_hash = ?`, tokenHash,
		).Scan(&reset.TokenHash, &reset.AdminID, &expiresAt, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrResetNotFound
		}
		if err != nil {
			return err
		}
		if reset.ExpiresAt, err = parseTime(expiresAt); err != nil {
			return err
		}
		if reset.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM password_resets WHERE token_hash = ?`, tokenHash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// DeleteExpiredPasswordResets removes reset tokens whose expiry is at or before now.
func (s *Store) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

const adminColumns = `id, email, password_hash, created_at, updated_at`

func scanAdmin(scanner interface{ Scan(dest ...any) error }) (*domain.Admin, error) {
	var (
		a         domain.Admin
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&a.ID, &a.Email, &a.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin inserts an admin account.
// Returns store.ErrEmailTaken if the email is already registered.
func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		strings.TrimSpace(a.Email),
		a.PasswordHash,
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if isUniqueViolation(err, "admins.email") {
		return store.ErrEmailTaken.WithCause(err)
	}
	return err
}

// GetAdmin retrieves an admin by ID.
func (s *Store) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAdminNotFound
	}
	return a, err
}

// GetAdminByEmail retrieves an admin by email. The match is case-insensitive.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = ?`, strings.TrimSpace(email))
	a, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAdminNotFound
	}
	return a, err
}

// UpdateAdmin persists the email and password hash of an existing admin.
func (s *Store) UpdateAdmin(ctx context.Context, a *domain.Admin) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE admins SET email = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(a.Email),
		a.PasswordHash,
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if isUniqueViolation(err, "admins.email") {
		return store.ErrEmailTaken.WithCause(err)
	}
	if err != nil {
		return err
	}
	return rowsAffected(result, store.ErrAdminNotFound)
}

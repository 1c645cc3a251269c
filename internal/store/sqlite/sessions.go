package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, admin_id, expires_at, created_at, last_seen_at, ip_address, user_agent`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var (
		s          domain.Session
		expiresAt  string
		createdAt  string
		lastSeenAt string
		ipAddress  sql.NullString
		userAgent  sql.NullString
	)

	err := scanner.Scan(
		&s.ID,
		&s.AdminID,
		&expiresAt,
		&createdAt,
		&lastSeenAt,
		&ipAddress,
		&userAgent,
	)
	if err != nil {
		return nil, err
	}

	if s.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.LastSeenAt, err = parseTime(lastSeenAt); err != nil {
		return nil, err
	}
	s.IPAddress = ipAddress.String
	s.UserAgent = userAgent.String

	return &s, nil
}

// CreateSession inserts a new admin session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.AdminID,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.LastSeenAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
	)
	if isUniqueViolation(err, "admin_sessions.id") {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetSession retrieves a session by ID. Expired sessions are returned; callers check expiry.
// Returns store.ErrSessionNotFound if it does not exist.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM admin_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	return session, err
}

// TouchSession records activity on a session.
func (s *Store) TouchSession(ctx context.Context, id string, seenAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE admin_sessions SET last_seen_at = ? WHERE id = ?`, formatTime(seenAt), id)
	if err != nil {
		return err
	}
	return rowsAffected(result, store.ErrSessionNotFound)
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, id)
	return err
}

// DeleteAdminSessions removes every session belonging to an admin and returns how many were removed.
func (s *Store) DeleteAdminSessions(ctx context.Context, adminID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE admin_id = ?`, adminID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// DeleteExpiredSessions removes sessions whose expiry is at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

// applicationColumns is the ordered list of columns selected in application queries.
// Must match the scan order in scanApplication.
const applicationColumns = `id, name, email, instagram, niche, status, created_at`

func scanApplication(scanner interface{ Scan(dest ...any) error }) (*domain.Application, error) {
	var (
		app       domain.Application
		status    string
		createdAt string
	)

	err := scanner.Scan(
		&app.ID,
		&app.Name,
		&app.Email,
		&app.Instagram,
		&app.Niche,
		&status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = domain.ApplicationStatus(status).OrDefault()
	if app.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &app, nil
}

// CreateApplication inserts a new submission. An empty status is stored as new.
func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	app.Status = app.Status.OrDefault()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, name, email, instagram, niche, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.Name,
		app.Email,
		app.Instagram,
		app.Niche,
		string(app.Status),
		formatTime(app.CreatedAt),
	)
	if isUniqueViolation(err, "applications.id") {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetApplication retrieves a submission by ID.
// Returns store.ErrApplicationNotFound if it does not exist.
func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrApplicationNotFound
	}
	return app, err
}

// ListApplications returns every submission, most recent first.
func (s *Store) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []*domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// UpdateApplicationStatus sets the status of a submission and returns the updated record.
// Any status may follow any other.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.IsValid() {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid status %q", status))
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return nil, err
	}
	if err := rowsAffected(result, store.ErrApplicationNotFound); err != nil {
		return nil, err
	}
	return s.GetApplication(ctx, id)
}

// DeleteApplication removes a submission.
// Returns store.ErrApplicationNotFound if it does not exist.
func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(result, store.ErrApplicationNotFound)
}

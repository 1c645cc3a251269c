// Package store defines the persistence contract for creators, applications and admin accounts.
package store

import (
	"context"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
)

// Store is the full persistence surface used by the services.
type Store interface {
	CreatorStore
	ApplicationStore
	AdminStore

	Ping(ctx context.Context) error
	Close() error
}

// CreatorStore persists creators together with their ordered gallery.
type CreatorStore interface {
	// CreateCreator inserts a creator. Returns ErrSlugTaken when the slug is already used;
	// uniqueness is enforced when the write commits.
	CreateCreator(ctx context.Context, c *domain.Creator) error
	GetCreator(ctx context.Context, id string) (*domain.Creator, error)
	// GetCreatorBySlug is a case-sensitive exact match.
	GetCreatorBySlug(ctx context.Context, slug string) (*domain.Creator, error)
	// ListCreators returns every creator in insertion order.
	ListCreators(ctx context.Context) ([]*domain.Creator, error)
	// UpdateCreator replaces the stored row and gallery with c.
	UpdateCreator(ctx context.Context, c *domain.Creator) error
	DeleteCreator(ctx context.Context, id string) error
}

// ApplicationStore persists intake submissions.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	// ListApplications returns every application, most recent first.
	ListApplications(ctx context.Context) ([]*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}

// AdminStore persists admin accounts, their sessions and password reset tokens.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *domain.Admin) error
	GetAdmin(ctx context.Context, id string) (*domain.Admin, error)
	// GetAdminByEmail matches case-insensitively.
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	UpdateAdmin(ctx context.Context, admin *domain.Admin) error

	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string, seenAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAdminSessions(ctx context.Context, adminID string) (int, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	CreatePasswordReset(ctx context.Context, reset *domain.PasswordReset) error
	// ConsumePasswordReset deletes the reset token and returns it. The caller checks expiry.
	ConsumePasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int, error)
}

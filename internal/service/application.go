package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
	"github.com/tmanorigins/tman-server/internal/id"
	"github.com/tmanorigins/tman-server/internal/store"
)

// ErrApplicationFieldsRequired is the message returned when a submission lacks name or email.
const ErrApplicationFieldsRequired = "Name and Email are required"

// ApplicationInput is a public intake submission.
type ApplicationInput struct {
	Name      string `json:"name" validate:"max=200"`
	Email     string `json:"email" validate:"max=320"`
	Instagram string `json:"instagram" validate:"max=500"`
	Niche     string `json:"niche" validate:"max=500"`
}

// ApplicationService handles intake submissions and their triage.
type ApplicationService struct {
	store  store.ApplicationStore
	logger *slog.Logger
}

// NewApplicationService creates a new application service.
func NewApplicationService(store store.ApplicationStore, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{store: store, logger: logger}
}

// Submit records a new application with status new. Name and email are required.
func (s *ApplicationService) Submit(ctx context.Context, in ApplicationInput) (*domain.Application, error) {
	in.Name = cleanText(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Instagram = cleanText(in.Instagram)
	in.Niche = cleanText(in.Niche)

	if in.Name == "" || in.Email == "" {
		return nil, domainerrors.Validation(ErrApplicationFieldsRequired)
	}
	if err := validate.Validate(in); err != nil {
		return nil, err
	}
	if err := validate.Var("email", in.Email, "email"); err != nil {
		return nil, err
	}

	appID, err := id.Generate(id.PrefixApplication)
	if err != nil {
		return nil, fmt.Errorf("generate application ID: %w", err)
	}

	app := domain.NewApplication(appID, in.Name, in.Email, in.Instagram, in.Niche)
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted", "application_id", app.ID)
	return app, nil
}

// List returns every application, most recent first.
func (s *ApplicationService) List(ctx context.Context) ([]*domain.Application, error) {
	return s.store.ListApplications(ctx)
}

// SetStatus moves an application to any status; there is no transition restriction.
func (s *ApplicationService) SetStatus(ctx context.Context, applicationID, rawStatus string) (*domain.Application, error) {
	status, err := domain.ParseApplicationStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, domainerrors.ValidationWithDetails(
			"status must be one of: new, reviewing, approved, rejected",
			map[string]string{"status": "must be one of: new reviewing approved rejected"},
		)
	}

	app, err := s.store.UpdateApplicationStatus(ctx, applicationID, status)
	if err != nil {
		return nil, mapApplicationError(err)
	}

	s.logger.Info("application status changed", "application_id", app.ID, "status", app.Status)
	return app, nil
}

// Delete removes an application.
func (s *ApplicationService) Delete(ctx context.Context, applicationID string) error {
	if err := s.store.DeleteApplication(ctx, applicationID); err != nil {
		return mapApplicationError(err)
	}
	s.logger.Info("application deleted", "application_id", applicationID)
	return nil
}

func mapApplicationError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("application not found")
	}
	return err
}

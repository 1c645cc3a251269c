package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/service"
)

func (s *Server) registerApplicationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listApplications",
		Method:      http.MethodGet,
		Path:        "/api/applications",
		Summary:     "List applications",
		Description: "Returns every application, most recent first",
		Tags:        []string{"Applications"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleListApplications)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submitApplication",
		Method:        http.MethodPost,
		Path:          "/api/applications",
		Summary:       "Submit application",
		Description:   "Public intake form. Name and email are required.",
		Tags:          []string{"Applications"},
		DefaultStatus: http.StatusCreated,
	}, s.handleSubmitApplication)

	huma.Register(s.api, huma.Operation{
		OperationID: "setApplicationStatus",
		Method:      http.MethodPut,
		Path:        "/api/applications/{id}/status",
		Summary:     "Set application status",
		Description: "Moves an application to any status; every transition is allowed",
		Tags:        []string{"Applications"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleSetApplicationStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteApplication",
		Method:      http.MethodDelete,
		Path:        "/api/applications/{id}",
		Summary:     "Delete application",
		Description: "Deletes one application",
		Tags:        []string{"Applications"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleDeleteApplication)
}

// === DTOs ===

// ApplicationResponse contains application data in API responses.
type ApplicationResponse struct {
	ID        string    `json:"id" doc:"Application ID"`
	Name      string    `json:"name" doc:"Applicant name"`
	Email     string    `json:"email" doc:"Applicant email"`
	Instagram string    `json:"instagram" doc:"Instagram handle or URL"`
	Niche     string    `json:"niche" doc:"Content niche"`
	Status    string    `json:"status" enum:"new,reviewing,approved,rejected" doc:"Triage status"`
	CreatedAt time.Time `json:"createdAt" doc:"Submission time"`
}

// ApplicationOutput wraps an application for Huma.
type ApplicationOutput struct {
	Body ApplicationResponse
}

// ApplicationListOutput wraps a list of applications for Huma.
type ApplicationListOutput struct {
	Body []ApplicationResponse
}

// SubmitApplicationRequest is the public intake body. Every field is optional at the schema
// level so missing name or email yields the intake message rather than a schema error.
type SubmitApplicationRequest struct {
	Name      string `json:"name,omitempty" doc:"Applicant name"`
	Email     string `json:"email,omitempty" doc:"Applicant email"`
	Instagram string `json:"instagram,omitempty" doc:"Instagram handle or URL"`
	Niche     string `json:"niche,omitempty" doc:"Content niche"`
}

// SubmitApplicationInput wraps the intake body for Huma.
type SubmitApplicationInput struct {
	Body SubmitApplicationRequest
}

// SetApplicationStatusInput changes an application's status.
type SetApplicationStatusInput struct {
	ID   string `path:"id" doc:"Application ID"`
	Body struct {
		Status string `json:"status" doc:"One of new, reviewing, approved, rejected"`
	}
}

// ApplicationIDInput identifies an application.
type ApplicationIDInput struct {
	ID string `path:"id" doc:"Application ID"`
}

// === Handlers ===

func (s *Server) handleListApplications(ctx context.Context, _ *struct{}) (*ApplicationListOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	apps, err := s.services.Applications.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = newApplicationResponse(app)
	}
	return &ApplicationListOutput{Body: resp}, nil
}

func (s *Server) handleSubmitApplication(ctx context.Context, input *SubmitApplicationInput) (*ApplicationOutput, error) {
	app, err := s.services.Applications.Submit(ctx, service.ApplicationInput{
		Name:      input.Body.Name,
		Email:     input.Body.Email,
		Instagram: input.Body.Instagram,
		Niche:     input.Body.Niche,
	})
	if err != nil {
		return nil, err
	}
	return &ApplicationOutput{Body: newApplicationResponse(app)}, nil
}

func (s *Server) handleSetApplicationStatus(ctx context.Context, input *SetApplicationStatusInput) (*ApplicationOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	app, err := s.services.Applications.SetStatus(ctx, input.ID, input.Body.Status)
	if err != nil {
		return nil, err
	}
	return &ApplicationOutput{Body: newApplicationResponse(app)}, nil
}

func (s *Server) handleDeleteApplication(ctx context.Context, input *ApplicationIDInput) (*DeleteOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Applications.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: DeleteResponse{ID: input.ID, Deleted: true}}, nil
}

func newApplicationResponse(app *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        app.ID,
		Name:      app.Name,
		Email:     app.Email,
		Instagram: app.Instagram,
		Niche:     app.Niche,
		Status:    string(app.Status.OrDefault()),
		CreatedAt: app.CreatedAt,
	}
}

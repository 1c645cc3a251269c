package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tmanorigins/tman-server/internal/domain"
)

// ListApplications returns every application, newest first.
func (c *Client) ListApplications(ctx context.Context) ([]Application, error) {
	apps, err := call[[]Application](ctx, c, c.http.R(), http.MethodGet, "/api/applications")
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

// SubmitApplication sends a public intake submission.
func (c *Client) SubmitApplication(ctx context.Context, in ApplicationRequest) (*Application, error) {
	app, err := call[Application](ctx, c, c.http.R().SetBody(in), http.MethodPost, "/api/applications")
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// SetApplicationStatus moves an application to status. Any status may follow any other.
func (c *Client) SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*Application, error) {
	req := c.http.R().SetBody(map[string]string{"status": string(status)})
	app, err := call[Application](ctx, c, req, http.MethodPut, applicationPath(id)+"/status")
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// DeleteApplication deletes one application.
func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	_, err := call[Deleted](ctx, c, c.http.R(), http.MethodDelete, applicationPath(id))
	return err
}

func applicationPath(id string) string {
	return "/api/applications/" + url.PathEscape(id)
}

package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

// Backend is the API surface the dashboard uses. *client.Client implements it.
type Backend interface {
	Me(ctx context.Context) (*client.Admin, error)
	Login(ctx context.Context, email, password string) (*client.Admin, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (string, error)

	ListCreators(ctx context.Context) ([]client.Creator, error)
	CreateCreator(ctx context.Context, form client.CreatorForm) (*client.Creator, error)
	UpdateCreator(ctx context.Context, id string, form client.CreatorForm) (*client.Creator, error)
	DeleteCreator(ctx context.Context, id string) error
	SetCover(ctx context.Context, id, image string) (*client.Creator, error)
	RemoveImage(ctx context.Context, id, image string) (*client.Creator, error)

	ListApplications(ctx context.Context) ([]client.Application, error)
	SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*client.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}

var _ Backend = (*client.Client)(nil)

// Controller owns the dashboard State and performs every action against the Backend.
//
// Every action returns the error it hit after folding it into State: a 401 signs the
// session out with MsgSessionExpired, anything else becomes State.Error.
type Controller struct {
	backend Backend
	state   *Cell[State]
	logger  *slog.Logger
}

// NewController creates a controller in the session-checking state.
func NewController(backend Backend, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		backend: backend,
		state:   NewCell(NewState()),
		logger:  logger,
	}
}

// State returns a snapshot of the dashboard state.
func (c *Controller) State() State {
	return c.state.Get()
}

// CheckSession asks the server whether the session cookie is still valid. Any failure,
// including an unreachable server, leaves the dashboard signed out without an error message.
func (c *Controller) CheckSession(ctx context.Context) error {
	admin, err := c.backend.Me(ctx)
	if err != nil {
		c.state.Update(func(s State) State { return SignedOut(s, "") })
		if client.IsUnauthorized(err) {
			return nil
		}
		c.logger.Debug("session check failed", "error", err)
		return err
	}

	c.state.Update(func(s State) State { return SignedIn(s, admin) })
	c.RefreshCreators(ctx)
	return nil
}

// Login signs in and loads the creator list.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		c.state.Update(func(s State) State { return Failure(s, MsgCredentialsMissing) })
		return domainerrors.Validation(MsgCredentialsMissing)
	}

	c.state.Update(func(s State) State { return Notice(s, "") })

	admin, err := c.backend.Login(ctx, email, password)
	if err != nil {
		c.state.Update(func(s State) State { return Failure(s, errorText(err, MsgLoginFailed)) })
		return err
	}

	c.state.Update(func(s State) State { return SignedIn(s, admin) })
	c.RefreshCreators(ctx)
	return nil
}

// Logout ends the session and clears every piece of loaded data. A failed server call is
// logged and otherwise ignored.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.backend.Logout(ctx); err != nil {
		c.logger.Warn("logout request failed", "error", err)
	}
	c.state.Update(func(s State) State { return SignedOut(s, "") })
}

// ForgotPassword requests a reset link. The acknowledgement is identical whether or not the
// email is registered or the call failed.
func (c *Controller) ForgotPassword(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}
	if _, err := c.backend.ForgotPassword(ctx, email); err != nil {
		c.logger.Warn("forgot password request failed", "error", err)
	}
	c.state.Update(func(s State) State { return Notice(s, MsgForgotAck) })
	return MsgForgotAck
}

// SelectTab switches sections, loading applications when that tab opens.
func (c *Controller) SelectTab(ctx context.Context, tab Tab) error {
	s := c.state.Update(func(s State) State { return SelectTab(s, tab) })
	if tab == TabApplications && s.Authenticated() {
		return c.RefreshApplications(ctx)
	}
	return nil
}

// RefreshCreators reloads the creator list. Failures degrade to an empty list.
func (c *Controller) RefreshCreators(ctx context.Context) {
	creators, err := c.backend.ListCreators(ctx)
	if err != nil {
		c.logger.Warn("creator list unavailable", "error", err)
		creators = nil
	}
	c.state.Update(func(s State) State { return WithCreators(s, creators) })
}

// RefreshApplications reloads the application list.
func (c *Controller) RefreshApplications(ctx context.Context) error {
	c.state.Update(LoadingApplications)

	apps, err := c.backend.ListApplications(ctx)
	if err != nil {
		c.fail(err, "Failed to load applications", func(s State) State {
			return WithApplications(s, nil)
		})
		return err
	}

	c.state.Update(func(s State) State { return WithApplications(s, apps) })
	return nil
}

// StartEdit loads a creator from the list into the editor.
func (c *Controller) StartEdit(id string) bool {
	creator, ok := c.state.Get().Creator(id)
	if !ok {
		return false
	}
	c.state.Update(func(s State) State { return StartEdit(s, creator) })
	return true
}

// CancelEdit empties the editor.
func (c *Controller) CancelEdit() {
	c.state.Update(CancelEdit)
}

// SetForm replaces the editor's text fields.
func (c *Controller) SetForm(form CreatorForm) {
	c.state.Update(func(s State) State { return WithForm(s, form) })
}

// AddUploads queues image files for the next save.
func (c *Controller) AddUploads(uploads ...client.Upload) {
	c.state.Update(func(s State) State { return WithUploads(s, uploads...) })
}

// SaveCreator creates a creator, or updates the one being edited, from the editor contents.
// Updates append the queued images to the existing gallery.
func (c *Controller) SaveCreator(ctx context.Context) (*client.Creator, error) {
	s := c.state.Update(func(s State) State { return Notice(s, MsgSaving) })

	form := client.CreatorForm{
		Name:      s.Form.Name,
		Slug:      s.Form.Slug,
		Bio:       s.Form.Bio,
		Instagram: s.Form.Instagram,
		Handle:    s.Form.Handle,
		EmailSlug: s.Form.EmailSlug,
		Featured:  s.Form.Featured,
		Images:    s.Uploads,
	}

	var (
		creator *client.Creator
		err     error
		done    = MsgCreatorAdded
	)
	if s.EditingID != "" {
		creator, err = c.backend.UpdateCreator(ctx, s.EditingID, form)
		done = MsgCreatorUpdated
	} else {
		creator, err = c.backend.CreateCreator(ctx, form)
	}
	if err != nil {
		c.fail(err, MsgSomethingWrong, nil)
		return nil, err
	}

	c.state.Update(func(s State) State { return Notice(CancelEdit(s), done) })
	c.RefreshCreators(ctx)
	return creator, nil
}

// DeleteCreator removes a creator from the list at once and restores it if the server
// refuses.
func (c *Controller) DeleteCreator(ctx context.Context, id string) error {
	err := Optimistic(ctx, c.state,
		func(s State) State { return WithoutCreator(s, id) },
		func(ctx context.Context) (func(State) State, error) {
			if err := c.backend.DeleteCreator(ctx, id); err != nil {
				return nil, err
			}
			return func(s State) State { return Notice(s, MsgCreatorDeleted) }, nil
		},
	)
	if err != nil {
		c.fail(err, "Delete failed", nil)
	}
	return err
}

// SetCover makes image the cover of a creator.
func (c *Controller) SetCover(ctx context.Context, id, image string) error {
	creator, err := c.backend.SetCover(ctx, id, image)
	if err != nil {
		c.fail(err, "Failed to set cover", nil)
		return err
	}
	c.state.Update(func(s State) State { return Notice(ReplaceCreator(s, *creator), MsgCoverUpdated) })
	return nil
}

// RemoveImage removes an image from a creator's gallery.
func (c *Controller) RemoveImage(ctx context.Context, id, image string) error {
	creator, err := c.backend.RemoveImage(ctx, id, image)
	if err != nil {
		c.fail(err, "Failed to remove image", nil)
		return err
	}
	c.state.Update(func(s State) State { return Notice(ReplaceCreator(s, *creator), MsgImageRemoved) })
	return nil
}

// SetApplicationStatus shows the new status at once. On success the server's copy replaces
// the entry; on failure the previous list is restored and, unless the session expired,
// reloaded from the server.
func (c *Controller) SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	err := Optimistic(ctx, c.state,
		func(s State) State { return WithApplicationStatus(s, id, status) },
		func(ctx context.Context) (func(State) State, error) {
			app, err := c.backend.SetApplicationStatus(ctx, id, status)
			if err != nil {
				return nil, err
			}
			return func(s State) State { return Notice(ReplaceApplication(s, *app), MsgApplicationUpdated) }, nil
		},
	)
	if err == nil {
		return nil
	}

	c.fail(err, "Failed to update status", nil)
	if !client.IsUnauthorized(err) {
		if refreshErr := c.RefreshApplications(ctx); refreshErr != nil {
			c.logger.Warn("application reload after failed status change", "error", refreshErr)
		}
		// RefreshApplications clears the error on start; keep the status failure visible.
		c.state.Update(func(s State) State { return Failure(s, errorText(err, "Failed to update status")) })
	}
	return err
}

// DeleteApplication removes an application from the list at once and restores it if the
// server refuses.
func (c *Controller) DeleteApplication(ctx context.Context, id string) error {
	err := Optimistic(ctx, c.state,
		func(s State) State { return WithoutApplication(s, id) },
		func(ctx context.Context) (func(State) State, error) {
			if err := c.backend.DeleteApplication(ctx, id); err != nil {
				return nil, err
			}
			return func(s State) State { return Notice(s, MsgApplicationDeleted) }, nil
		},
	)
	if err != nil {
		c.fail(err, "Failed to delete application", nil)
	}
	return err
}

// fail folds err into the state: a 401 signs out, anything else is shown after applying
// extra (if given).
func (c *Controller) fail(err error, fallback string, extra func(State) State) {
	if client.IsUnauthorized(err) {
		c.logger.Info("admin session expired")
		c.state.Update(SessionExpired)
		return
	}
	c.state.Update(func(s State) State {
		if extra != nil {
			s = extra(s)
		}
		return Failure(s, errorText(err, fallback))
	})
}

// errorText turns err into the message shown to staff.
func errorText(err error, fallback string) string {
	switch client.KindOf(err) {
	case client.KindNetwork:
		return MsgNetworkFailure
	case client.KindServer:
		return fallback
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Package admin implements the staff dashboard as a session controller over the API client.
//
// All dashboard data lives in one State value. Pure update functions derive the next State from
// the previous one; the Controller is the single owner that runs API calls and stores the
// result.
package admin

import (
	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/domain"
)

// User-facing messages.
const (
	MsgSessionExpired     = "Session expired. Please login again."
	MsgForgotAck          = "If that email exists, a reset link has been sent."
	MsgLoginFailed        = "Login failed"
	MsgCredentialsMissing = "Email and password are required"
	MsgSaving             = "Saving..."
	MsgCreatorAdded       = "Added"
	MsgCreatorUpdated     = "Updated (gallery appended)"
	MsgCreatorDeleted     = "Creator deleted"
	MsgCoverUpdated       = "Cover updated"
	MsgImageRemoved       = "Image removed"
	MsgApplicationUpdated = "Application updated"
	MsgApplicationDeleted = "Application deleted"
	MsgNetworkFailure     = "Could not reach the server. Please try again."
	MsgSomethingWrong     = "Something went wrong"
)

// SessionStatus is the state of the admin session guard.
type SessionStatus int

// Session states.
const (
	SessionChecking SessionStatus = iota
	SessionUnauthenticated
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionChecking:
		return "checking"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Tab is the visible dashboard section.
type Tab string

// Dashboard tabs.
const (
	TabCreators     Tab = "creators"
	TabApplications Tab = "applications"
)

// CreatorForm holds the text fields of the creator editor.
type CreatorForm struct {
	Name      string
	Slug      string
	Bio       string
	Instagram string
	Handle    string
	EmailSlug string
	Featured  bool
}

// State is the complete dashboard state.
type State struct {
	Session SessionStatus
	Admin   *client.Admin
	Tab     Tab

	Creators     []client.Creator
	Applications []client.Application
	AppsLoading  bool

	// EditingID is the creator being edited; empty means the form creates a new creator.
	EditingID string
	Form      CreatorForm
	Uploads   []client.Upload

	Message string
	Error   string
}

// NewState returns the state before the session check has completed.
func NewState() State {
	return State{Session: SessionChecking, Tab: TabCreators}
}

// Authenticated reports whether admin operations are available.
func (s State) Authenticated() bool {
	return s.Session == SessionAuthenticated
}

// NewApplicationsCount counts applications still in status new. A missing status counts as new.
func (s State) NewApplicationsCount() int {
	n := 0
	for _, app := range s.Applications {
		if app.Status.OrDefault() == domain.ApplicationStatusNew {
			n++
		}
	}
	return n
}

// Creator returns the loaded creator with the given ID.
func (s State) Creator(id string) (client.Creator, bool) {
	for _, c := range s.Creators {
		if c.ID == id {
			return c, true
		}
	}
	return client.Creator{}, false
}

package admin

import (
	"slices"

	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/domain"
)

// Update functions never modify their input: slices are copied before they change.

// SignedIn records a successful session check or login.
func SignedIn(s State, admin *client.Admin) State {
	s.Session = SessionAuthenticated
	s.Admin = admin
	s.Error = ""
	return s
}

// SignedOut drops the session and every piece of loaded data, leaving errMsg as the only
// visible message.
func SignedOut(_ State, errMsg string) State {
	return State{
		Session: SessionUnauthenticated,
		Tab:     TabCreators,
		Error:   errMsg,
	}
}

// SessionExpired is SignedOut with the re-login prompt.
func SessionExpired(s State) State {
	return SignedOut(s, MsgSessionExpired)
}

// SelectTab switches the visible section.
func SelectTab(s State, tab Tab) State {
	s.Tab = tab
	return s
}

// Notice shows an informational message and clears any error.
func Notice(s State, msg string) State {
	s.Message = msg
	s.Error = ""
	return s
}

// Failure shows an error and clears any informational message.
func Failure(s State, msg string) State {
	s.Message = ""
	s.Error = msg
	return s
}

// WithCreators replaces the creator list.
func WithCreators(s State, creators []client.Creator) State {
	s.Creators = slices.Clone(creators)
	if s.Creators == nil {
		s.Creators = []client.Creator{}
	}
	return s
}

// ReplaceCreator swaps in the server's copy of a creator.
func ReplaceCreator(s State, creator client.Creator) State {
	s.Creators = slices.Clone(s.Creators)
	for i := range s.Creators {
		if s.Creators[i].ID == creator.ID {
			s.Creators[i] = creator
		}
	}
	return s
}

// WithoutCreator removes a creator from the list.
func WithoutCreator(s State, id string) State {
	s.Creators = slices.DeleteFunc(slices.Clone(s.Creators), func(c client.Creator) bool {
		return c.ID == id
	})
	if s.EditingID == id {
		s = CancelEdit(s)
	}
	return s
}

// StartEdit loads a creator into the editor.
func StartEdit(s State, creator client.Creator) State {
	s.EditingID = creator.ID
	s.Form = CreatorForm{
		Name:      creator.Name,
		Slug:      creator.Slug,
		Bio:       creator.Bio,
		Instagram: creator.Instagram,
		Handle:    creator.Handle,
		EmailSlug: creator.EmailSlug,
		Featured:  creator.Featured,
	}
	s.Uploads = nil
	s.Message = ""
	s.Error = ""
	return s
}

// CancelEdit empties the editor.
func CancelEdit(s State) State {
	s.EditingID = ""
	s.Form = CreatorForm{}
	s.Uploads = nil
	return s
}

// WithForm replaces the editor's text fields.
func WithForm(s State, form CreatorForm) State {
	s.Form = form
	return s
}

// WithUploads queues image files for the next save.
func WithUploads(s State, uploads ...client.Upload) State {
	s.Uploads = append(slices.Clone(s.Uploads), uploads...)
	return s
}

// LoadingApplications marks the application list as loading.
func LoadingApplications(s State) State {
	s.AppsLoading = true
	s.Error = ""
	return s
}

// WithApplications replaces the application list.
func WithApplications(s State, apps []client.Application) State {
	s.Applications = slices.Clone(apps)
	if s.Applications == nil {
		s.Applications = []client.Application{}
	}
	s.AppsLoading = false
	return s
}

// WithApplicationStatus sets the status of one application.
func WithApplicationStatus(s State, id string, status domain.ApplicationStatus) State {
	s.Applications = slices.Clone(s.Applications)
	for i := range s.Applications {
		if s.Applications[i].ID == id {
			s.Applications[i].Status = status
		}
	}
	return s
}

// ReplaceApplication swaps in the server's copy of an application.
func ReplaceApplication(s State, app client.Application) State {
	s.Applications = slices.Clone(s.Applications)
	for i := range s.Applications {
		if s.Applications[i].ID == app.ID {
			s.Applications[i] = app
		}
	}
	return s
}

// WithoutApplication removes an application from the list.
func WithoutApplication(s State, id string) State {
	s.Applications = slices.DeleteFunc(slices.Clone(s.Applications), func(a client.Application) bool {
		return a.ID == id
	})
	return s
}

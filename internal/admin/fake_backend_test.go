package admin

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/tmanorigins/tman-server/internal/client"
	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

var (
	errExpired  = &client.APIError{Status: http.StatusUnauthorized, Code: domainerrors.CodeUnauthorized, Message: "Authentication required"}
	errConflict = &client.APIError{Status: http.StatusConflict, Code: domainerrors.CodeConflict, Message: `slug "jane" is already in use`}
	errServer   = &client.APIError{Status: http.StatusInternalServerError, Code: domainerrors.CodeInternal, Message: "internal server error"}
	errOffline  = &client.NetworkError{Method: http.MethodGet, Path: "/api/admin/me", Err: context.DeadlineExceeded}
)

// fakeBackend is an in-memory Backend. failures maps a method name to the error it returns.
type fakeBackend struct {
	mu       sync.Mutex
	admin    *client.Admin
	password string
	creators []client.Creator
	apps     []client.Application
	failures map[string]error
	calls    []string
	saved    []client.CreatorForm
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		password: "correct horse",
		creators: []client.Creator{
			{ID: "crt-1", Name: "Jane Doe", Slug: "jane", Images: []string{"/uploads/creators/crt-1/a.png"}, Image: "/uploads/creators/crt-1/a.png"},
			{ID: "crt-2", Name: "Sam Roe", Slug: "sam"},
		},
		apps: []client.Application{
			{ID: "app-1", Name: "A", Email: "a@x.com", Status: domain.ApplicationStatusNew},
			{ID: "app-2", Name: "B", Email: "b@x.com", Status: domain.ApplicationStatusRejected},
			{ID: "app-3", Name: "C", Email: "c@x.com"},
		},
		failures: map[string]error{},
	}
}

func (f *fakeBackend) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = err
}

func (f *fakeBackend) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	return f.failures[method]
}

func (f *fakeBackend) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeBackend) Me(context.Context) (*client.Admin, error) {
	if err := f.enter("Me"); err != nil {
		return nil, err
	}
	if f.admin == nil {
		return nil, errExpired
	}
	return f.admin, nil
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*client.Admin, error) {
	if err := f.enter("Login"); err != nil {
		return nil, err
	}
	if password != f.password {
		return nil, &client.APIError{Status: http.StatusUnauthorized, Code: domainerrors.CodeInvalidCredentials, Message: "Invalid email or password"}
	}
	f.admin = &client.Admin{ID: "adm-1", Email: email}
	return f.admin, nil
}

func (f *fakeBackend) Logout(context.Context) error {
	f.admin = nil
	return f.enter("Logout")
}

func (f *fakeBackend) ForgotPassword(context.Context, string) (string, error) {
	if err := f.enter("ForgotPassword"); err != nil {
		return "", err
	}
	return MsgForgotAck, nil
}

func (f *fakeBackend) ListCreators(context.Context) ([]client.Creator, error) {
	if err := f.enter("ListCreators"); err != nil {
		return nil, err
	}
	return slices.Clone(f.creators), nil
}

func (f *fakeBackend) CreateCreator(_ context.Context, form client.CreatorForm) (*client.Creator, error) {
	if err := f.enter("CreateCreator"); err != nil {
		return nil, err
	}
	f.saved = append(f.saved, form)
	c := client.Creator{ID: "crt-new", Name: form.Name, Slug: form.Slug}
	f.creators = append(f.creators, c)
	return &c, nil
}

func (f *fakeBackend) UpdateCreator(_ context.Context, id string, form client.CreatorForm) (*client.Creator, error) {
	if err := f.enter("UpdateCreator"); err != nil {
		return nil, err
	}
	f.saved = append(f.saved, form)
	for i := range f.creators {
		if f.creators[i].ID == id {
			f.creators[i].Name = form.Name
			return &f.creators[i], nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound, Message: "creator not found"}
}

func (f *fakeBackend) DeleteCreator(_ context.Context, id string) error {
	if err := f.enter("DeleteCreator"); err != nil {
		return err
	}
	f.creators = slices.DeleteFunc(f.creators, func(c client.Creator) bool { return c.ID == id })
	return nil
}

func (f *fakeBackend) SetCover(_ context.Context, id, image string) (*client.Creator, error) {
	if err := f.enter("SetCover"); err != nil {
		return nil, err
	}
	for i := range f.creators {
		if f.creators[i].ID == id {
			f.creators[i].Image = image
			c := f.creators[i]
			return &c, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound, Message: "creator not found"}
}

func (f *fakeBackend) RemoveImage(_ context.Context, id, image string) (*client.Creator, error) {
	if err := f.enter("RemoveImage"); err != nil {
		return nil, err
	}
	for i := range f.creators {
		if f.creators[i].ID == id {
			c := f.creators[i]
			c.Images = slices.DeleteFunc(slices.Clone(c.Images), func(ref string) bool { return ref == image })
			if c.Image == image {
				c.Image = ""
			}
			f.creators[i] = c
			return &c, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound, Message: "creator not found"}
}

func (f *fakeBackend) ListApplications(context.Context) ([]client.Application, error) {
	if err := f.enter("ListApplications"); err != nil {
		return nil, err
	}
	return slices.Clone(f.apps), nil
}

func (f *fakeBackend) SetApplicationStatus(_ context.Context, id string, status domain.ApplicationStatus) (*client.Application, error) {
	if err := f.enter("SetApplicationStatus"); err != nil {
		return nil, err
	}
	for i := range f.apps {
		if f.apps[i].ID == id {
			f.apps[i].Status = status
			app := f.apps[i]
			return &app, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound, Message: "application not found"}
}

func (f *fakeBackend) DeleteApplication(_ context.Context, id string) error {
	if err := f.enter("DeleteApplication"); err != nil {
		return err
	}
	f.apps = slices.DeleteFunc(f.apps, func(a client.Application) bool { return a.ID == id })
	return nil
}

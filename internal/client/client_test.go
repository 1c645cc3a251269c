package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"v": 1, "success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"v": 1, "success": false, "error": msg, "code": code, "message": msg,
	})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Retries: 0})
	require.NoError(t, err)
	return c, srv
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty", "", true},
		{"relative", "/api", true},
		{"bad scheme", "ftp://example.com", true},
		{"http", "http://localhost:8080", false},
		{"trailing slash", "https://api.example.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Options{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
		})
	}
}

func TestLogin_KeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct horse" {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "tman_session", Value: "tok", Path: "/", HttpOnly: true})
		writeData(w, http.StatusOK, map[string]string{"id": "adm-1", "email": body["email"]})
	})
	mux.HandleFunc("GET /api/admin/me", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("tman_session"); err != nil || cookie.Value != "tok" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		writeData(w, http.StatusOK, map[string]string{"id": "adm-1", "email": "staff@tman.test"})
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.True(t, IsUnauthorized(err))

	_, err = c.Login(ctx, "staff@tman.test", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	admin, err := c.Login(ctx, "staff@tman.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", admin.ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "staff@tman.test", me.Email)
}

func TestCall_ErrorEnvelope(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusConflict, "CONFLICT", `slug "jane" is already in use`)
	}))

	_, err := c.SetCover(context.Background(), "crt-1", "/uploads/creators/crt-1/a.png")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, domainerrors.CodeConflict, apiErr.Code)
	assert.Equal(t, `slug "jane" is already in use`, apiErr.Message)
	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestCall_NonEnvelopeError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))

	_, err := c.CreatorBySlug(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domainerrors.CodeNotFound, apiErr.Code)
	assert.Equal(t, "not found", apiErr.Message)
}

func TestCall_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: baseURL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ListApplications(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestPublicCreators_DegradesToEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}))

	creators := c.PublicCreators(context.Background())
	assert.NotNil(t, creators)
	assert.Empty(t, creators)
}

func TestListCreators_EmptyIsNotNil(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, nil)
	}))

	creators, err := c.ListCreators(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, creators)
	assert.Empty(t, creators)
}

func TestCreateCreator_SendsMultipartForm(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/creators", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Jane Doe", r.FormValue("name"))
		assert.Equal(t, "jane", r.FormValue("slug"))
		assert.Equal(t, "true", r.FormValue("featured"))
		assert.Equal(t, "", r.FormValue("emailSlug"))

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.png", files[0].Filename)
		f, err := files[1].Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)

		writeData(w, http.StatusCreated, map[string]any{
			"id":     "crt-1",
			"name":   "Jane Doe",
			"slug":   "jane",
			"images": []string{"/uploads/creators/crt-1/a.png", "/uploads/creators/crt-1/b.png"},
			"image":  "/uploads/creators/crt-1/a.png",
		})
	}))

	creator, err := c.CreateCreator(context.Background(), CreatorForm{
		Name:     "Jane Doe",
		Slug:     "jane",
		Bio:      "Travel creator",
		Featured: true,
		Images: []Upload{
			{Filename: "a.png", Data: []byte("first")},
			{Filename: "b.png", Data: []byte("second")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "crt-1", creator.ID)
	assert.Len(t, creator.Images, 2)
	assert.Equal(t, creator.Images[0], creator.Image)
}

func TestRetries_OnlyForReads(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeError(w, http.StatusServiceUnavailable, "INTERNAL", "unavailable")
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Retries: 2})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.ListCreators(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(3), hits.Load())

	hits.Store(0)
	err = c.DeleteApplication(ctx, "app-1")
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestImageURL(t *testing.T) {
	c, err := New(Options{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)

	updated := time.UnixMilli(1700000000123)
	creator := Creator{ID: "crt-1", Image: "/uploads/creators/crt-1/a.png", UpdatedAt: updated}

	assert.Equal(t, "http://localhost:8080/uploads/creators/crt-1/a.png?v=1700000000123", c.ThumbnailURL(creator))

	creator.UpdatedAt = time.Time{}
	assert.Equal(t, "http://localhost:8080/uploads/creators/crt-1/a.png?v=crt-1", c.ThumbnailURL(creator))

	creator.Image = ""
	assert.Empty(t, c.ThumbnailURL(creator))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindValidation, KindOf(&APIError{Status: http.StatusUnprocessableEntity}))
	assert.Equal(t, KindAuth, KindOf(&APIError{Status: http.StatusUnauthorized}))
	assert.Equal(t, KindNetwork, KindOf(&NetworkError{Method: "GET", Path: "/", Err: io.EOF}))
	assert.Equal(t, "not_found", KindNotFound.String())
}

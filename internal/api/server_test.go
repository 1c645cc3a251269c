package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/media/images"
	"github.com/tmanorigins/tman-server/internal/service"
	"github.com/tmanorigins/tman-server/internal/store/sqlite"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct horse battery"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	imageStore, err := images.NewLocalStore(dir, "uploads")
	require.NoError(t, err)

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key)
	require.NoError(t, err)

	authService := service.NewAdminAuthService(st, tokens, service.AdminAuthOptions{
		SessionDuration:    time.Hour,
		ResetTokenDuration: time.Hour,
	}, logger)
	_, err = authService.SeedAdmin(context.Background(), testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	services := &Services{
		Creators:     service.NewCreatorService(st, imageStore, service.CreatorOptions{ContactDomain: "example.com", FeaturedLimit: 3}, logger),
		Applications: service.NewApplicationService(st, logger),
		Auth:         authService,
	}

	s := NewServer(services, Dependencies{Database: st, Images: imageStore}, Options{
		Version:            "test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		MaxUploadSize:      4 << 20,
	}, logger)

	return &testServer{Server: s, api: humatest.Wrap(t, s.API())}
}

// login returns a Cookie header for an authenticated admin session.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	resp := ts.api.Post("/api/admin/login", map[string]any{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	return "Cookie: " + cookies[0].Name + "=" + cookies[0].Value
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	require.Equal(t, 1, env.V)
	return env
}

func pngData(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// creatorForm builds a multipart body with creator fields and n PNG images.
func creatorForm(t *testing.T, fields map[string]string, n int) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < n; i++ {
		fw, err := mw.CreateFormFile("images", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(pngData(t, color.RGBA{R: uint8(60 * i), G: 100, B: 200, A: 255}))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func (ts *testServer) sendForm(t *testing.T, method, path, cookie string, fields map[string]string, n int) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := creatorForm(t, fields, n)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if cookie != "" {
		req.Header.Set("Cookie", cookie[len("Cookie: "):])
	}

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

func janeFields(slug string) map[string]string {
	return map[string]string{
		"name":      "Jane Doe",
		"slug":      slug,
		"bio":       "Lifestyle creator.",
		"instagram": "https://instagram.com/jane",
		"handle":    "@jane",
		"featured":  "true",
		"emailSlug": "jane",
	}
}

func (ts *testServer) createCreator(t *testing.T, cookie, slug string, n int) CreatorResponse {
	t.Helper()
	w := ts.sendForm(t, http.MethodPost, "/api/creators", cookie, janeFields(slug), n)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeEnvelope[CreatorResponse](t, w).Data
}

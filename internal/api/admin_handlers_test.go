package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmanorigins/tman-server/internal/service"
)

func TestAdminMe_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/admin/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	// A session check never creates a session.
	assert.Empty(t, resp.Result().Cookies())
}

func TestAdminLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	resp := ts.api.Get("/api/admin/me", cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[AdminResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, testAdminEmail, env.Data.Email)
	assert.False(t, env.Data.ExpiresAt.IsZero())
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/admin/login", map[string]any{
		"email":    testAdminEmail,
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
	assert.Equal(t, "Invalid email or password", env.Message)
	assert.Empty(t, resp.Result().Cookies())
}

func TestAdminLogout(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	resp := ts.api.Post("/api/admin/logout", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)

	// The old token no longer authenticates.
	assert.Equal(t, http.StatusUnauthorized, ts.api.Get("/api/admin/me", cookie).Code)

	// Logging out without a session still succeeds.
	assert.Equal(t, http.StatusOK, ts.api.Post("/api/admin/logout").Code)
}

func TestAdminForgot_GenericResponse(t *testing.T) {
	ts := setupTestServer(t)

	for _, email := range []string{testAdminEmail, "nobody@example.com"} {
		resp := ts.api.Post("/api/admin/forgot", map[string]any{"email": email})
		require.Equal(t, http.StatusOK, resp.Code)

		env := decodeEnvelope[MessageResponse](t, resp)
		assert.Equal(t, service.ForgotPasswordAck, env.Data.Message)
	}
}

func TestAdminReset_InvalidToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/admin/reset", map[string]any{
		"token":    "not-a-token",
		"password": "a brand new password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp).Code)
}

func TestAPI_NoStoreHeader(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/creators")
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))
}

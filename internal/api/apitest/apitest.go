// Package apitest starts a complete API server backed by a temporary SQLite database and local
// image store, for end-to-end tests of API consumers.
package apitest

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmanorigins/tman-server/internal/api"
	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/media/images"
	"github.com/tmanorigins/tman-server/internal/service"
	"github.com/tmanorigins/tman-server/internal/store/sqlite"
)

// Seeded admin credentials.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "correct horse battery"
)

// Server is a running test API.
type Server struct {
	URL   string
	Store *sqlite.Store
}

// NewServer starts a server with a seeded admin account. It is shut down when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	imageStore, err := images.NewLocalStore(dir, "uploads")
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	key, err := auth.LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	authService := service.NewAdminAuthService(st, tokens, service.AdminAuthOptions{
		SessionDuration:    time.Hour,
		ResetTokenDuration: time.Hour,
	}, logger)
	if _, err := authService.SeedAdmin(context.Background(), AdminEmail, AdminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	handler := api.NewServer(&api.Services{
		Creators: service.NewCreatorService(st, imageStore, service.CreatorOptions{
			ContactDomain: "example.com",
			FeaturedLimit: 3,
		}, logger),
		Applications: service.NewApplicationService(st, logger),
		Auth:         authService,
	}, api.Dependencies{Database: st, Images: imageStore}, api.Options{
		Version:       "test",
		MaxUploadSize: 4 << 20,
	}, logger)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Server{URL: srv.URL, Store: st}
}

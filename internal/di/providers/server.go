package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/api"
	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 30 * time.Second

// Version is the server version reported by the OpenAPI document. Set at build time with -ldflags.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	imageStore := do.MustInvoke[*ImageStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Creators:     do.MustInvoke[*service.CreatorService](i),
		Applications: do.MustInvoke[*service.ApplicationService](i),
		Auth:         do.MustInvoke[*service.AdminAuthService](i),
	}

	handler := api.NewServer(services, api.Dependencies{
		Database: storeHandle.Store,
		Images:   imageStore.Store,
	}, api.Options{
		Version:            Version,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		CookieSecure:       cfg.Auth.CookieSecure,
		MaxUploadSize:      cfg.Server.MaxUploadSize,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}

package api

import (
	"context"

	"github.com/tmanorigins/tman-server/internal/media/images"
	"github.com/tmanorigins/tman-server/internal/service"
)

// Services groups the business services used by the API server.
type Services struct {
	Creators     *service.CreatorService
	Applications *service.ApplicationService
	Auth         *service.AdminAuthService
}

// Pinger is anything whose health can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds what the server needs besides services.
type Dependencies struct {
	Database Pinger
	Images   images.Store
}

// Package di provides dependency injection configuration for the TMan Origins server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/di/providers"
	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideImageStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideCreatorService)
	do.Provide(injector, providers.ProvideApplicationService)
	do.Provide(injector, providers.ProvideAdminAuthService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes every service eagerly so configuration and storage errors surface at
// startup rather than on the first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ImageStoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.CreatorService](injector)
	_ = do.MustInvoke[*service.ApplicationService](injector)
	if err := providers.SeedAdmin(injector); err != nil {
		return err
	}

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

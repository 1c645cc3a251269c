package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/service"
)

// ProvideCreatorService provides the creator service.
func ProvideCreatorService(i do.Injector) (*service.CreatorService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	imageStore := do.MustInvoke[*ImageStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCreatorService(storeHandle.Store, imageStore.Store, service.CreatorOptions{
		ContactDomain: cfg.Site.ContactDomain,
		FeaturedLimit: cfg.Site.FeaturedLimit,
	}, log.Component("creators")), nil
}

// ProvideApplicationService provides the application intake service.
func ProvideApplicationService(i do.Injector) (*service.ApplicationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewApplicationService(storeHandle.Store, log.Component("applications")), nil
}

// ProvideAdminAuthService provides the admin authentication service.
func ProvideAdminAuthService(i do.Injector) (*service.AdminAuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminAuthService(storeHandle.Store, tokenService, service.AdminAuthOptions{
		SessionDuration:    cfg.Auth.SessionDuration,
		ResetTokenDuration: cfg.Auth.ResetTokenDuration,
	}, log.Component("auth")), nil
}

// SeedAdmin creates the configured admin account on first boot.
func SeedAdmin(i do.Injector) error {
	cfg := do.MustInvoke[*config.Config](i)
	authService := do.MustInvoke[*service.AdminAuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AdminEmail == "" {
		log.Debug("No ADMIN_EMAIL configured, skipping admin seed")
		return nil
	}

	created, err := authService.SeedAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !created {
		log.Info("Admin account already present", "email", cfg.Auth.AdminEmail)
	}
	return nil
}

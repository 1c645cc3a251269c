package providers

import (
	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/auth"
	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/logger"
)

// AuthKey wraps the session token key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the session token key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"session_duration", cfg.Auth.SessionDuration,
		"reset_token_duration", cfg.Auth.ResetTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService(authKey)
}

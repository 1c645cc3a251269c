package providers

import (
	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/store/sqlite"
)

// StoreHandle closes the SQLite store when the container shuts down.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the database under the data path and applies the schema.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.DatabasePath()
	st, err := sqlite.Open(path, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Database ready", "path", path)

	return &StoreHandle{Store: st}, nil
}

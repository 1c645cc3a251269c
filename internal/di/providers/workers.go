package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/service"
)

const cleanupInterval = time.Hour

// SessionCleanupJob periodically removes expired admin sessions and reset tokens.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	authService := do.MustInvoke[*service.AdminAuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	cleanup := func(initial bool) {
		sessions, resets, err := authService.CleanupExpired(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("Session cleanup failed", "initial", initial, "error", err)
		case sessions > 0 || resets > 0:
			log.Info("Session cleanup completed", "initial", initial, "sessions", sessions, "resets", resets)
		}
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		cleanup(true)

		for {
			select {
			case <-ticker.C:
				cleanup(false)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", cleanupInterval)

	return job, nil
}

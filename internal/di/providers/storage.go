package providers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/tmanorigins/tman-server/internal/config"
	"github.com/tmanorigins/tman-server/internal/logger"
	"github.com/tmanorigins/tman-server/internal/media/images"
)

// uploadsDir is the local image directory under the data path.
const uploadsDir = "uploads"

// ImageStoreHandle wraps the configured image backend.
type ImageStoreHandle struct {
	images.Store
}

// ProvideImageStore provides the image store selected by IMAGE_BACKEND.
func ProvideImageStore(i do.Injector) (*ImageStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Storage.Backend == config.ImageBackendMinIO {
		m := cfg.Storage.MinIO
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		st, err := images.NewMinIOStore(ctx, images.MinIOOptions{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio image store: %w", err)
		}
		log.Info("Image store initialized", "backend", config.ImageBackendMinIO, "endpoint", m.Endpoint, "bucket", m.Bucket)
		return &ImageStoreHandle{Store: st}, nil
	}

	st, err := images.NewLocalStore(cfg.Data.BasePath, uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("local image store: %w", err)
	}
	log.Info("Image store initialized", "backend", config.ImageBackendLocal, "path", filepath.Join(cfg.Data.BasePath, uploadsDir))

	return &ImageStoreHandle{Store: st}, nil
}

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmanorigins/tman-server/internal/http/response"
	"github.com/tmanorigins/tman-server/internal/media/images"
)

// imageCacheControl lets browsers keep assets for a week; clients bust it with ?v=.
const imageCacheControl = "public, max-age=604800"

func (s *Server) registerUploadRoutes() {
	s.router.Get(images.PublicPrefix+"creators/{creatorID}/{file}", s.handleServeCreatorImage)
}

// handleServeCreatorImage streams a stored creator image from the configured backend.
func (s *Server) handleServeCreatorImage(w http.ResponseWriter, r *http.Request) {
	key := images.CreatorKey(chi.URLParam(r, "creatorID"), chi.URLParam(r, "file"))
	if err := images.ValidateKey(key); err != nil {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	rc, err := s.deps.Images.Open(r.Context(), key)
	if errors.Is(err, images.ErrNotFound) {
		response.NotFound(w, "image not found", s.logger)
		return
	}
	if err != nil {
		s.logger.Error("failed to open image", "key", key, "error", err)
		response.InternalError(w, "failed to read image", s.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", images.ContentTypeForKey(key))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("failed to stream image", "key", key, "error", err)
	}
}

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
	"github.com/tmanorigins/tman-server/internal/http/response"
	"github.com/tmanorigins/tman-server/internal/service"
)

// multipartMemory is how much of a form is buffered in memory before spilling to temp files.
const multipartMemory = 8 << 20

// handleCreateCreator handles POST /api/creators with a multipart form.
func (s *Server) handleCreateCreator(w http.ResponseWriter, r *http.Request) {
	if _, err := RequireAdmin(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	in, uploads, err := s.parseCreatorForm(w, r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	c, err := s.services.Creators.Create(r.Context(), in, uploads)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, s.creatorResponse(c), s.logger)
}

// handleUpdateCreator handles PUT /api/creators/{id}. Uploaded images are appended.
func (s *Server) handleUpdateCreator(w http.ResponseWriter, r *http.Request) {
	if _, err := RequireAdmin(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	in, uploads, err := s.parseCreatorForm(w, r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	c, err := s.services.Creators.Update(r.Context(), chi.URLParam(r, "id"), in, uploads)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, s.creatorResponse(c), s.logger)
}

// parseCreatorForm reads the creator fields and the images[] files from a multipart request.
func (s *Server) parseCreatorForm(w http.ResponseWriter, r *http.Request) (service.CreatorInput, []service.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.CreatorInput{}, nil, domainerrors.Validationf("upload exceeds the %d byte limit", tooLarge.Limit)
		}
		return service.CreatorInput{}, nil, domainerrors.Validation("request must be a multipart form")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	featured, err := parseFormBool(r.FormValue("featured"))
	if err != nil {
		return service.CreatorInput{}, nil, domainerrors.ValidationWithDetails(
			"featured must be true or false",
			map[string]string{"featured": "must be true or false"},
		)
	}

	in := service.CreatorInput{
		Name:      r.FormValue("name"),
		Slug:      r.FormValue("slug"),
		Bio:       r.FormValue("bio"),
		Instagram: r.FormValue("instagram"),
		Handle:    r.FormValue("handle"),
		EmailSlug: r.FormValue("emailSlug"),
		Featured:  featured,
	}

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["images"]...)
	headers = append(headers, r.MultipartForm.File["images[]"]...)

	uploads := make([]service.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFormFile(fh)
		if err != nil {
			return service.CreatorInput{}, nil, domainerrors.Wrapf(err, domainerrors.CodeValidation, "could not read %q", fh.Filename)
		}
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Data: data})
	}

	return in, uploads, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// parseFormBool accepts what browsers and form encoders send for a checkbox. Empty is false.
func parseFormBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off", "no":
		return false, nil
	case "on", "yes":
		return true, nil
	default:
		return strconv.ParseBool(v)
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tmanorigins/tman-server/internal/domain"
)

func (s *Server) registerCreatorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCreators",
		Method:      http.MethodGet,
		Path:        "/api/creators",
		Summary:     "List creators",
		Description: "Returns every creator in insertion order",
		Tags:        []string{"Creators"},
	}, s.handleListCreators)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFeaturedCreators",
		Method:      http.MethodGet,
		Path:        "/api/creators/featured",
		Summary:     "Featured creators",
		Description: "Returns the featured creators highlighted on the home page",
		Tags:        []string{"Creators"},
	}, s.handleListFeaturedCreators)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCreatorBySlug",
		Method:      http.MethodGet,
		Path:        "/api/creators/slug/{slug}",
		Summary:     "Get creator by slug",
		Description: "Returns the creator whose slug matches exactly",
		Tags:        []string{"Creators"},
	}, s.handleGetCreatorBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCreator",
		Method:      http.MethodGet,
		Path:        "/api/creators/{id}",
		Summary:     "Get creator",
		Description: "Returns a creator by ID",
		Tags:        []string{"Creators"},
	}, s.handleGetCreator)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCreator",
		Method:      http.MethodDelete,
		Path:        "/api/creators/{id}",
		Summary:     "Delete creator",
		Description: "Deletes a creator and every image it owns",
		Tags:        []string{"Creators"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleDeleteCreator)

	huma.Register(s.api, huma.Operation{
		OperationID: "setCreatorCover",
		Method:      http.MethodPut,
		Path:        "/api/creators/{id}/cover",
		Summary:     "Set cover image",
		Description: "Makes one of the creator's gallery images the cover",
		Tags:        []string{"Creators"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleSetCreatorCover)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCreatorImage",
		Method:      http.MethodDelete,
		Path:        "/api/creators/{id}/images",
		Summary:     "Remove gallery image",
		Description: "Removes an image from the gallery. Removing the cover leaves the creator without one.",
		Tags:        []string{"Creators"},
		Security:    []map[string][]string{{"cookie": {}}},
	}, s.handleRemoveCreatorImage)

	// Create and update take multipart forms, which are served outside huma.
	s.router.Post("/api/creators", s.handleCreateCreator)
	s.router.Put("/api/creators/{id}", s.handleUpdateCreator)
}

// === DTOs ===

// CreatorResponse contains creator data in API responses.
type CreatorResponse struct {
	ID             string            `json:"id" doc:"Creator ID"`
	Name           string            `json:"name" doc:"Display name"`
	Slug           string            `json:"slug" doc:"Unique URL-safe identifier"`
	Bio            string            `json:"bio" doc:"Biography"`
	Instagram      string            `json:"instagram" doc:"Instagram URL"`
	Handle         string            `json:"handle" doc:"Display handle"`
	EmailSlug      string            `json:"emailSlug" doc:"Suffix of the collaboration address"`
	Featured       bool              `json:"featured" doc:"Highlighted on the home page"`
	Images         []string          `json:"images" doc:"Ordered gallery image paths"`
	Image          string            `json:"image" doc:"Cover image path, empty or one of images"`
	BlurHashes     map[string]string `json:"blurHashes,omitempty" doc:"Placeholder hash per image path"`
	ContactEmail   string            `json:"contactEmail" doc:"Collaboration address"`
	ContactSubject string            `json:"contactSubject" doc:"Subject line for collaboration enquiries"`
	CreatedAt      time.Time         `json:"createdAt" doc:"Creation time"`
	UpdatedAt      time.Time         `json:"updatedAt" doc:"Last change; append as ?v= to bust image caches"`
}

// CreatorOutput wraps a creator for Huma.
type CreatorOutput struct {
	Body CreatorResponse
}

// CreatorListOutput wraps a list of creators for Huma.
type CreatorListOutput struct {
	Body []CreatorResponse
}

// GetCreatorBySlugInput contains parameters for a slug lookup.
type GetCreatorBySlugInput struct {
	Slug string `path:"slug" doc:"Creator slug"`
}

// CreatorIDInput identifies a creator.
type CreatorIDInput struct {
	ID string `path:"id" doc:"Creator ID"`
}

// ImageRequest names one gallery image.
type ImageRequest struct {
	Image string `json:"image" doc:"Image path as returned in images"`
}

// CreatorImageInput identifies a creator and one of its images.
type CreatorImageInput struct {
	ID   string `path:"id" doc:"Creator ID"`
	Body ImageRequest
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	ID      string `json:"id" doc:"ID of the deleted record"`
	Deleted bool   `json:"deleted" doc:"Always true"`
}

// DeleteOutput wraps a deletion acknowledgement for Huma.
type DeleteOutput struct {
	Body DeleteResponse
}

// === Handlers ===

func (s *Server) handleListCreators(ctx context.Context, _ *struct{}) (*CreatorListOutput, error) {
	creators, err := s.services.Creators.List(ctx)
	if err != nil {
		return nil, err
	}
	return &CreatorListOutput{Body: s.creatorResponses(creators)}, nil
}

func (s *Server) handleListFeaturedCreators(ctx context.Context, _ *struct{}) (*CreatorListOutput, error) {
	creators, err := s.services.Creators.Featured(ctx)
	if err != nil {
		return nil, err
	}
	return &CreatorListOutput{Body: s.creatorResponses(creators)}, nil
}

func (s *Server) handleGetCreatorBySlug(ctx context.Context, input *GetCreatorBySlugInput) (*CreatorOutput, error) {
	c, err := s.services.Creators.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &CreatorOutput{Body: s.creatorResponse(c)}, nil
}

func (s *Server) handleGetCreator(ctx context.Context, input *CreatorIDInput) (*CreatorOutput, error) {
	c, err := s.services.Creators.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CreatorOutput{Body: s.creatorResponse(c)}, nil
}

func (s *Server) handleDeleteCreator(ctx context.Context, input *CreatorIDInput) (*DeleteOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.services.Creators.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: DeleteResponse{ID: input.ID, Deleted: true}}, nil
}

func (s *Server) handleSetCreatorCover(ctx context.Context, input *CreatorImageInput) (*CreatorOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	c, err := s.services.Creators.SetCover(ctx, input.ID, input.Body.Image)
	if err != nil {
		return nil, err
	}
	return &CreatorOutput{Body: s.creatorResponse(c)}, nil
}

func (s *Server) handleRemoveCreatorImage(ctx context.Context, input *CreatorImageInput) (*CreatorOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	c, err := s.services.Creators.RemoveImage(ctx, input.ID, input.Body.Image)
	if err != nil {
		return nil, err
	}
	return &CreatorOutput{Body: s.creatorResponse(c)}, nil
}

func (s *Server) creatorResponse(c *domain.Creator) CreatorResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return CreatorResponse{
		ID:             c.ID,
		Name:           c.Name,
		Slug:           c.Slug,
		Bio:            c.Bio,
		Instagram:      c.Instagram,
		Handle:         c.Handle,
		EmailSlug:      c.EmailSlug,
		Featured:       c.Featured,
		Images:         images,
		Image:          c.Image,
		BlurHashes:     c.BlurHashes,
		ContactEmail:   c.ContactEmail(s.services.Creators.ContactDomain()),
		ContactSubject: c.ContactSubject(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (s *Server) creatorResponses(creators []*domain.Creator) []CreatorResponse {
	resp := make([]CreatorResponse, len(creators))
	for i, c := range creators {
		resp[i] = s.creatorResponse(c)
	}
	return resp
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmanorigins/tman-server/internal/domain"
	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
	"github.com/tmanorigins/tman-server/internal/id"
	"github.com/tmanorigins/tman-server/internal/media/images"
	"github.com/tmanorigins/tman-server/internal/store"
)

// CreatorInput holds the editable fields of a creator.
type CreatorInput struct {
	Name      string `json:"name" validate:"notblank,max=200"`
	Slug      string `json:"slug" validate:"notblank,slug,max=100"`
	Bio       string `json:"bio" validate:"notblank,max=10000"`
	Instagram string `json:"instagram" validate:"max=500"`
	Handle    string `json:"handle" validate:"max=100"`
	EmailSlug string `json:"emailSlug" validate:"max=64,excludesall=@ "`
	Featured  bool   `json:"featured"`
}

func (in CreatorInput) normalized() CreatorInput {
	in.Name = cleanText(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Bio = cleanText(in.Bio)
	in.Instagram = strings.TrimSpace(in.Instagram)
	in.Handle = cleanText(in.Handle)
	in.EmailSlug = strings.TrimSpace(in.EmailSlug)
	return in
}

func (in CreatorInput) apply(c *domain.Creator) {
	c.Name = in.Name
	c.Slug = in.Slug
	c.Bio = in.Bio
	c.Instagram = in.Instagram
	c.Handle = in.Handle
	c.EmailSlug = in.EmailSlug
	c.Featured = in.Featured
}

// ImageUpload is one uploaded gallery file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreatorOptions configures derived creator data.
type CreatorOptions struct {
	ContactDomain string
	FeaturedLimit int
}

// CreatorService manages creators and the images they own.
type CreatorService struct {
	store  store.CreatorStore
	images images.Store
	opts   CreatorOptions
	logger *slog.Logger
}

// NewCreatorService creates a new creator service.
func NewCreatorService(store store.CreatorStore, imageStore images.Store, opts CreatorOptions, logger *slog.Logger) *CreatorService {
	if opts.ContactDomain == "" {
		opts.ContactDomain = domain.DefaultContactDomain
	}
	return &CreatorService{
		store:  store,
		images: imageStore,
		opts:   opts,
		logger: logger,
	}
}

// ContactDomain returns the domain used for creator collaboration addresses.
func (s *CreatorService) ContactDomain() string {
	return s.opts.ContactDomain
}

// List returns every creator in insertion order.
func (s *CreatorService) List(ctx context.Context) ([]*domain.Creator, error) {
	return s.store.ListCreators(ctx)
}

// Featured returns up to the configured number of featured creators, in list order.
func (s *CreatorService) Featured(ctx context.Context) ([]*domain.Creator, error) {
	all, err := s.store.ListCreators(ctx)
	if err != nil {
		return nil, err
	}

	featured := make([]*domain.Creator, 0, s.opts.FeaturedLimit)
	for _, c := range all {
		if len(featured) >= s.opts.FeaturedLimit {
			break
		}
		if c.Featured {
			featured = append(featured, c)
		}
	}
	return featured, nil
}

// Get returns a creator by ID.
func (s *CreatorService) Get(ctx context.Context, creatorID string) (*domain.Creator, error) {
	c, err := s.store.GetCreator(ctx, creatorID)
	return c, mapCreatorError(err)
}

// GetBySlug returns the creator whose slug matches exactly.
func (s *CreatorService) GetBySlug(ctx context.Context, slug string) (*domain.Creator, error) {
	c, err := s.store.GetCreatorBySlug(ctx, slug)
	return c, mapCreatorError(err)
}

// Create validates input, stores the uploaded images and inserts the creator.
// The first stored image becomes the cover.
func (s *CreatorService) Create(ctx context.Context, in CreatorInput, uploads []ImageUpload) (*domain.Creator, error) {
	in = in.normalized()
	if err := validate.Validate(in); err != nil {
		return nil, err
	}
	prepared, err := prepareUploads(uploads)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, in.Slug, ""); err != nil {
		return nil, err
	}

	creatorID, err := id.Generate(id.PrefixCreator)
	if err != nil {
		return nil, fmt.Errorf("generate creator ID: %w", err)
	}

	c := &domain.Creator{Record: domain.Record{ID: creatorID}, Images: []string{}}
	in.apply(c)
	c.InitTimestamps()

	stored, err := s.storeUploads(ctx, creatorID, prepared)
	if err != nil {
		s.discardAll(ctx, creatorID)
		return nil, err
	}
	s.attach(c, stored)

	if err := s.store.CreateCreator(ctx, c); err != nil {
		s.discardAll(ctx, creatorID)
		return nil, mapCreatorWriteError(err, c.Slug)
	}

	s.logger.Info("creator created",
		"creator_id", c.ID,
		"slug", c.Slug,
		"images", len(c.Images),
	)
	return c, nil
}

// Update replaces the editable fields of a creator and appends any uploaded images to its
// gallery. Existing images are never removed by an update.
func (s *CreatorService) Update(ctx context.Context, creatorID string, in CreatorInput, uploads []ImageUpload) (*domain.Creator, error) {
	c, err := s.store.GetCreator(ctx, creatorID)
	if err != nil {
		return nil, mapCreatorError(err)
	}

	in = in.normalized()
	if err := validate.Validate(in); err != nil {
		return nil, err
	}
	prepared, err := prepareUploads(uploads)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, in.Slug, c.ID); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, c.ID, prepared)
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	in.apply(c)
	s.attach(c, stored)
	c.Touch()

	if err := s.store.UpdateCreator(ctx, c); err != nil {
		s.discard(ctx, stored)
		return nil, mapCreatorWriteError(err, c.Slug)
	}

	s.logger.Info("creator updated",
		"creator_id", c.ID,
		"slug", c.Slug,
		"images_added", len(stored),
		"images", len(c.Images),
	)
	return c, nil
}

// SetCover makes ref the cover image. ref must be in the creator's gallery.
func (s *CreatorService) SetCover(ctx context.Context, creatorID, ref string) (*domain.Creator, error) {
	c, err := s.store.GetCreator(ctx, creatorID)
	if err != nil {
		return nil, mapCreatorError(err)
	}

	if err := c.SetCover(ref); err != nil {
		return nil, galleryError(err, ref)
	}
	c.Touch()

	if err := s.store.UpdateCreator(ctx, c); err != nil {
		return nil, mapCreatorWriteError(err, c.Slug)
	}

	s.logger.Info("creator cover set", "creator_id", c.ID, "image", ref)
	return c, nil
}

// RemoveImage drops ref from the gallery and deletes the stored asset. Removing the cover
// leaves the creator without one.
func (s *CreatorService) RemoveImage(ctx context.Context, creatorID, ref string) (*domain.Creator, error) {
	c, err := s.store.GetCreator(ctx, creatorID)
	if err != nil {
		return nil, mapCreatorError(err)
	}

	if err := c.RemoveImage(ref); err != nil {
		return nil, galleryError(err, ref)
	}
	c.Touch()

	if err := s.store.UpdateCreator(ctx, c); err != nil {
		return nil, mapCreatorWriteError(err, c.Slug)
	}

	if key, err := images.KeyForRef(ref); err == nil {
		if err := s.images.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete removed image", "creator_id", c.ID, "image", ref, "error", err)
		}
	}

	s.logger.Info("creator image removed", "creator_id", c.ID, "image", ref, "cover", c.Image)
	return c, nil
}

// Delete removes a creator and every image it owns.
func (s *CreatorService) Delete(ctx context.Context, creatorID string) error {
	if err := s.store.DeleteCreator(ctx, creatorID); err != nil {
		return mapCreatorError(err)
	}

	s.discardAll(ctx, creatorID)

	s.logger.Info("creator deleted", "creator_id", creatorID)
	return nil
}

func (s *CreatorService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.store.GetCreatorBySlug(ctx, slug)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domainerrors.Conflictf("slug %q is already in use", slug)
	default:
		return nil
	}
}

// preparedUpload is an upload whose content type has been sniffed.
type preparedUpload struct {
	ImageUpload
	contentType string
	ext         string
}

// storedImage is an upload written to the image store.
type storedImage struct {
	key      string
	ref      string
	blurHash string
}

// prepareUploads drops empty parts and rejects any file that is not a supported image, before
// anything is written.
func prepareUploads(uploads []ImageUpload) ([]preparedUpload, error) {
	prepared := make([]preparedUpload, 0, len(uploads))
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		contentType, ext, err := images.Detect(u.Data)
		if err != nil {
			return nil, domainerrors.Validationf("%s is not a supported image (jpeg, png, gif or webp)", displayName(u.Filename))
		}
		prepared = append(prepared, preparedUpload{ImageUpload: u, contentType: contentType, ext: ext})
	}
	return prepared, nil
}

// storeUploads writes uploads in order. On error it returns what was stored so far.
func (s *CreatorService) storeUploads(ctx context.Context, creatorID string, uploads []preparedUpload) ([]storedImage, error) {
	stored := make([]storedImage, 0, len(uploads))
	for _, u := range uploads {
		name, err := id.ImageName()
		if err != nil {
			return stored, err
		}
		key := images.CreatorKey(creatorID, name+u.ext)
		if err := s.images.Save(ctx, key, u.Data, u.contentType); err != nil {
			return stored, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store image")
		}

		img := storedImage{key: key, ref: images.RefForKey(key)}
		if hash, err := images.ComputeBlurHash(u.Data); err != nil {
			s.logger.Warn("blurhash failed", "creator_id", creatorID, "file", u.Filename, "error", err)
		} else {
			img.blurHash = hash
		}
		stored = append(stored, img)
	}
	return stored, nil
}

// attach appends stored images to the gallery along with their placeholders.
func (s *CreatorService) attach(c *domain.Creator, stored []storedImage) {
	refs := make([]string, 0, len(stored))
	for _, img := range stored {
		refs = append(refs, img.ref)
		if img.blurHash != "" {
			if c.BlurHashes == nil {
				c.BlurHashes = make(map[string]string)
			}
			c.BlurHashes[img.ref] = img.blurHash
		}
	}
	c.AppendImages(refs...)
}

// discard deletes freshly stored images after a failed write.
func (s *CreatorService) discard(ctx context.Context, stored []storedImage) {
	for _, img := range stored {
		if err := s.images.Delete(ctx, img.key); err != nil {
			s.logger.Warn("failed to discard image", "key", img.key, "error", err)
		}
	}
}

func (s *CreatorService) discardAll(ctx context.Context, creatorID string) {
	if err := s.images.DeletePrefix(ctx, images.CreatorPrefix(creatorID)); err != nil {
		s.logger.Warn("failed to delete creator images", "creator_id", creatorID, "error", err)
	}
}

func mapCreatorError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("creator not found")
	}
	return err
}

func mapCreatorWriteError(err error, slug string) error {
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflictf("slug %q is already in use", slug)
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("creator not found")
	default:
		return err
	}
}

func galleryError(err error, ref string) error {
	if errors.Is(err, domain.ErrImageNotInGallery) {
		if ref == "" {
			return domainerrors.Validation("image is required")
		}
		return domainerrors.Validationf("%s is not part of this creator's gallery", ref)
	}
	return err
}

func displayName(filename string) string {
	if filename == "" {
		return "uploaded file"
	}
	return fmt.Sprintf("%q", filename)
}

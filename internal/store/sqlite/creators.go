package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

// creatorColumns is the ordered list of columns selected in creator queries.
// Must match the scan order in scanCreator.
const creatorColumns = `id, name, slug, bio, instagram, handle, email_slug, featured,
	cover_image, created_at, updated_at`

// scanCreator scans a creator row. The gallery is loaded separately.
func scanCreator(scanner interface{ Scan(dest ...any) error }) (*domain.Creator, error) {
	var (
		c         domain.Creator
		featured  int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Bio,
		&c.Instagram,
		&c.Handle,
		&c.EmailSlug,
		&featured,
		&c.Image,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Featured = featured != 0
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	c.Images = []string{}

	return &c, nil
}

// CreateCreator inserts a creator and its gallery in one transaction.
// Returns store.ErrSlugTaken if another creator already uses the slug.
func (s *Store) CreateCreator(ctx context.Context, c *domain.Creator) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO creators (
				id, name, slug, bio, instagram, handle, email_slug, featured,
				cover_image, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID,
			c.Name,
			c.Slug,
			c.Bio,
			c.Instagram,
			c.Handle,
			c.EmailSlug,
			boolToInt(c.Featured),
			c.Image,
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
		)
		if err != nil {
			return err
		}
		return insertGallery(ctx, tx, c)
	})
	return mapCreatorWriteError(err)
}

// GetCreator retrieves a creator by ID.
// Returns store.ErrCreatorNotFound if it does not exist.
func (s *Store) GetCreator(ctx context.Context, id string) (*domain.Creator, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+creatorColumns+` FROM creators WHERE id = ?`, id)
	return s.loadCreator(ctx, row)
}

// GetCreatorBySlug retrieves a creator by exact, case-sensitive slug.
// Returns store.ErrCreatorNotFound if no creator uses the slug.
func (s *Store) GetCreatorBySlug(ctx context.Context, slug string) (*domain.Creator, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+creatorColumns+` FROM creators WHERE slug = ?`, slug)
	return s.loadCreator(ctx, row)
}

func (s *Store) loadCreator(ctx context.Context, row *sql.Row) (*domain.Creator, error) {
	c, err := scanCreator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCreatorNotFound
	}
	if err != nil {
		return nil, err
	}

	galleries, err := s.loadGalleries(ctx, `WHERE creator_id = ?`, c.ID)
	if err != nil {
		return nil, err
	}
	applyGallery(c, galleries[c.ID])
	return c, nil
}

// ListCreators returns all creators in insertion order.
func (s *Store) ListCreators(ctx context.Context) ([]*domain.Creator, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+creatorColumns+` FROM creators ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creators := []*domain.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(creators) == 0 {
		return creators, nil
	}

	galleries, err := s.loadGalleries(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, c := range creators {
		applyGallery(c, galleries[c.ID])
	}
	return creators, nil
}

// UpdateCreator replaces the creator row and its gallery.
// Returns store.ErrCreatorNotFound if the creator does not exist and store.ErrSlugTaken if
// the new slug belongs to another creator.
func (s *Store) UpdateCreator(ctx context.Context, c *domain.Creator) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE creators SET
				name = ?,
				slug = ?,
				bio = ?,
				instagram = ?,
				handle = ?,
				email_slug = ?,
				featured = ?,
				cover_image = ?,
				updated_at = ?
			WHERE id = ?`,
			c.Name,
			c.Slug,
			c.Bio,
			c.Instagram,
			c.Handle,
			c.EmailSlug,
			boolToInt(c.Featured),
			c.Image,
			formatTime(c.UpdatedAt),
			c.ID,
		)
		if err != nil {
			return err
		}
		if err := rowsAffected(result, store.ErrCreatorNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM creator_images WHERE creator_id = ?`, c.ID); err != nil {
			return err
		}
		return insertGallery(ctx, tx, c)
	})
	return mapCreatorWriteError(err)
}

// DeleteCreator removes a creator and its gallery rows.
// Returns store.ErrCreatorNotFound if the creator does not exist.
func (s *Store) DeleteCreator(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM creator_images WHERE creator_id = ?`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM creators WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return rowsAffected(result, store.ErrCreatorNotFound)
	})
}

type galleryImage struct {
	ref      string
	blurHash string
}

// loadGalleries returns gallery rows grouped by creator, each in position order.
func (s *Store) loadGalleries(ctx context.Context, where string, args ...any) (map[string][]galleryImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT creator_id, ref, blur_hash FROM creator_images `+where+` ORDER BY creator_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	galleries := make(map[string][]galleryImage)
	for rows.Next() {
		var creatorID string
		var img galleryImage
		if err := rows.Scan(&creatorID, &img.ref, &img.blurHash); err != nil {
			return nil, err
		}
		galleries[creatorID] = append(galleries[creatorID], img)
	}
	return galleries, rows.Err()
}

func applyGallery(c *domain.Creator, images []galleryImage) {
	c.Images = make([]string, 0, len(images))
	for _, img := range images {
		c.Images = append(c.Images, img.ref)
		if img.blurHash != "" {
			if c.BlurHashes == nil {
				c.BlurHashes = make(map[string]string)
			}
			c.BlurHashes[img.ref] = img.blurHash
		}
	}
	c.ReconcileCover()
}

func insertGallery(ctx context.Context, tx *sql.Tx, c *domain.Creator) error {
	if len(c.Images) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO creator_images (creator_id, ref, position, blur_hash) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ref := range c.Images {
		if _, err := stmt.ExecContext(ctx, c.ID, ref, i, c.BlurHashes[ref]); err != nil {
			return fmt.Errorf("insert image %q: %w", ref, err)
		}
	}
	return nil
}

func mapCreatorWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "creators.slug") {
		return store.ErrSlugTaken.WithCause(err)
	}
	if isUniqueViolation(err, "creators.id") {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

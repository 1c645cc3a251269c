package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// ListCreators returns every creator.
func (c *Client) ListCreators(ctx context.Context) ([]Creator, error) {
	creators, err := call[[]Creator](ctx, c, c.http.R(), http.MethodGet, "/api/creators")
	if err != nil {
		return nil, err
	}
	return nonNil(creators), nil
}

// PublicCreators lists creators for public pages. Any failure degrades to an empty list.
func (c *Client) PublicCreators(ctx context.Context) []Creator {
	creators, err := c.ListCreators(ctx)
	if err != nil {
		c.logger.Warn("creator list unavailable, rendering empty", "error", err)
		return []Creator{}
	}
	return creators
}

// FeaturedCreators returns the creators highlighted on the home page.
func (c *Client) FeaturedCreators(ctx context.Context) ([]Creator, error) {
	creators, err := call[[]Creator](ctx, c, c.http.R(), http.MethodGet, "/api/creators/featured")
	if err != nil {
		return nil, err
	}
	return nonNil(creators), nil
}

// CreatorBySlug returns the creator with the given slug.
func (c *Client) CreatorBySlug(ctx context.Context, slug string) (*Creator, error) {
	return c.creator(ctx, c.http.R(), http.MethodGet, "/api/creators/slug/"+url.PathEscape(slug))
}

// Creator returns the creator with the given ID.
func (c *Client) Creator(ctx context.Context, id string) (*Creator, error) {
	return c.creator(ctx, c.http.R(), http.MethodGet, creatorPath(id))
}

// CreateCreator creates a creator from form and uploads its images.
func (c *Client) CreateCreator(ctx context.Context, form CreatorForm) (*Creator, error) {
	return c.creator(ctx, multipartRequest(c.http.R(), form), http.MethodPost, "/api/creators")
}

// UpdateCreator replaces a creator's text fields and appends any uploaded images to its gallery.
func (c *Client) UpdateCreator(ctx context.Context, id string, form CreatorForm) (*Creator, error) {
	return c.creator(ctx, multipartRequest(c.http.R(), form), http.MethodPut, creatorPath(id))
}

// DeleteCreator deletes a creator and its images.
func (c *Client) DeleteCreator(ctx context.Context, id string) error {
	_, err := call[Deleted](ctx, c, c.http.R(), http.MethodDelete, creatorPath(id))
	return err
}

// SetCover makes image the creator's cover. image must already be in the gallery.
func (c *Client) SetCover(ctx context.Context, id, image string) (*Creator, error) {
	req := c.http.R().SetBody(map[string]string{"image": image})
	return c.creator(ctx, req, http.MethodPut, creatorPath(id)+"/cover")
}

// RemoveImage removes image from the creator's gallery, clearing the cover if it was the cover.
func (c *Client) RemoveImage(ctx context.Context, id, image string) (*Creator, error) {
	req := c.http.R().SetBody(map[string]string{"image": image})
	return c.creator(ctx, req, http.MethodDelete, creatorPath(id)+"/images")
}

func (c *Client) creator(ctx context.Context, req *resty.Request, method, path string) (*Creator, error) {
	creator, err := call[Creator](ctx, c, req, method, path)
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

func creatorPath(id string) string {
	return "/api/creators/" + url.PathEscape(id)
}

func multipartRequest(req *resty.Request, form CreatorForm) *resty.Request {
	req.SetMultipartFormData(map[string]string{
		"name":      form.Name,
		"slug":      form.Slug,
		"bio":       form.Bio,
		"instagram": form.Instagram,
		"handle":    form.Handle,
		"emailSlug": form.EmailSlug,
		"featured":  strconv.FormatBool(form.Featured),
	})
	for _, upload := range form.Images {
		req.SetFileReader("images", upload.Filename, bytes.NewReader(upload.Data))
	}
	return req
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Package domain holds the entities managed by the agency back office.
package domain

import (
	"errors"
	"slices"
	"strings"
)

// DefaultContactDomain is used when no contact domain is configured.
const DefaultContactDomain = "tmanorigins.com"

// ErrImageNotInGallery is returned when an image reference is not part of a creator's gallery.
var ErrImageNotInGallery = errors.New("image is not part of this creator's gallery")

// Creator is a managed talent profile.
//
// Images is the ordered gallery; Image is the cover and is either empty or a member of Images.
// Every gallery mutation goes through reconcileCover, which restores that invariant.
type Creator struct {
	Record
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	Bio        string            `json:"bio"`
	Instagram  string            `json:"instagram"`
	Handle     string            `json:"handle"`
	EmailSlug  string            `json:"emailSlug"`
	Featured   bool              `json:"featured"`
	Images     []string          `json:"images"`
	Image      string            `json:"image"`
	BlurHashes map[string]string `json:"blurHashes,omitempty"`
}

// HasImage reports whether ref is part of the gallery.
func (c *Creator) HasImage(ref string) bool {
	return ref != "" && slices.Contains(c.Images, ref)
}

// CoverValid reports whether the cover invariant currently holds.
func (c *Creator) CoverValid() bool {
	return c.Image == "" || c.HasImage(c.Image)
}

// AppendImages adds refs to the end of the gallery in the given order, skipping refs already
// present. When the creator has no cover afterwards, the first gallery image becomes the cover.
// It returns the refs that were actually added.
func (c *Creator) AppendImages(refs ...string) []string {
	var added []string
	for _, ref := range refs {
		if ref == "" || c.HasImage(ref) || slices.Contains(added, ref) {
			continue
		}
		added = append(added, ref)
	}
	c.Images = append(c.Images, added...)
	c.reconcileCover(true)
	return added
}

// SetCover makes ref the cover. ref must already be in the gallery.
func (c *Creator) SetCover(ref string) error {
	if !c.HasImage(ref) {
		return ErrImageNotInGallery
	}
	c.Image = ref
	c.reconcileCover(false)
	return nil
}

// RemoveImage drops ref from the gallery. Removing the cover clears it; no other image is
// promoted in its place.
func (c *Creator) RemoveImage(ref string) error {
	if !c.HasImage(ref) {
		return ErrImageNotInGallery
	}
	c.Images = slices.DeleteFunc(slices.Clone(c.Images), func(img string) bool { return img == ref })
	c.reconcileCover(false)
	return nil
}

// reconcileCover is the single place the gallery invariant is enforced. It removes empty and
// duplicate refs, drops a cover that is no longer in the gallery, prunes placeholder hashes of
// removed images, and, when promote is set, assigns the first image as cover if none is set.
func (c *Creator) reconcileCover(promote bool) {
	seen := make(map[string]bool, len(c.Images))
	images := make([]string, 0, len(c.Images))
	for _, ref := range c.Images {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		images = append(images, ref)
	}
	c.Images = images

	if c.Image != "" && !seen[c.Image] {
		c.Image = ""
	}
	if promote && c.Image == "" && len(c.Images) > 0 {
		c.Image = c.Images[0]
	}

	for ref := range c.BlurHashes {
		if !seen[ref] {
			delete(c.BlurHashes, ref)
		}
	}
}

// ReconcileCover restores the gallery invariant on a creator loaded from elsewhere
// (for example, a row written by an older version) without promoting a new cover.
func (c *Creator) ReconcileCover() {
	c.reconcileCover(false)
}

// ContactEmail returns the collaboration address: team<emailSlug>@domain, or team@domain when
// the creator has no email slug.
func (c *Creator) ContactEmail(domain string) string {
	if domain == "" {
		domain = DefaultContactDomain
	}
	return "team" + strings.TrimSpace(c.EmailSlug) + "@" + domain
}

// ContactSubject returns the subject line used for collaboration enquiries.
func (c *Creator) ContactSubject() string {
	return "Brand Collaboration Inquiry — " + c.Name
}

// Clone returns a deep copy so callers can mutate the gallery without aliasing.
func (c *Creator) Clone() *Creator {
	cp := *c
	cp.Images = slices.Clone(c.Images)
	if c.BlurHashes != nil {
		cp.BlurHashes = make(map[string]string, len(c.BlurHashes))
		for k, v := range c.BlurHashes {
			cp.BlurHashes[k] = v
		}
	}
	return &cp
}

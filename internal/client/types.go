package client

import (
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
)

// Admin is the signed-in staff account.
type Admin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Creator is a managed talent profile as returned by the API.
type Creator struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Bio            string            `json:"bio"`
	Instagram      string            `json:"instagram"`
	Handle         string            `json:"handle"`
	EmailSlug      string            `json:"emailSlug"`
	Featured       bool              `json:"featured"`
	Images         []string          `json:"images"`
	Image          string            `json:"image"`
	BlurHashes     map[string]string `json:"blurHashes,omitempty"`
	ContactEmail   string            `json:"contactEmail"`
	ContactSubject string            `json:"contactSubject"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Application is an intake submission as returned by the API.
type Application = domain.Application

// ApplicationRequest is the public intake form.
type ApplicationRequest struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Niche     string `json:"niche,omitempty"`
}

// Upload is one image file attached to a creator form.
type Upload struct {
	Filename string
	Data     []byte
}

// CreatorForm is the multipart body of a creator create or update. Updates append Images to
// the existing gallery.
type CreatorForm struct {
	Name      string
	Slug      string
	Bio       string
	Instagram string
	Handle    string
	EmailSlug string
	Featured  bool
	Images    []Upload
}

// Deleted acknowledges a deletion.
type Deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type message struct {
	Message string `json:"message"`
}

// ComponentHealth is the status of one server dependency.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// Health is the server health report.
type Health struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Components map[string]ComponentHealth `json:"components"`
}

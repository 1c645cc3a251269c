package images

import (
	"errors"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedType is returned for uploads that are not an accepted image format.
var ErrUnsupportedType = errors.New("unsupported image type")

// allowed maps accepted MIME types to the extension used when storing them.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Detect sniffs the content of an upload and returns its MIME type and storage extension.
// The declared filename and Content-Type are ignored.
func Detect(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrUnsupportedType
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok := allowed[m.String()]; ok {
			return m.String(), ext, nil
		}
	}
	return "", "", ErrUnsupportedType
}

// ContentTypeForKey returns the MIME type implied by a stored key's extension.
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	for ct, e := range allowed {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

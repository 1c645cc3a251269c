package images

import (
	"fmt"
	"strings"
)

// PublicPrefix is the URL path under which creator images are served.
const PublicPrefix = "/uploads/"

// CreatorPrefix returns the key prefix holding every image of a creator.
func CreatorPrefix(creatorID string) string {
	return "creators/" + creatorID + "/"
}

// CreatorKey returns the storage key for one image of a creator.
func CreatorKey(creatorID, filename string) string {
	return CreatorPrefix(creatorID) + filename
}

// RefForKey converts a storage key into the public reference stored on the creator.
func RefForKey(key string) string {
	return PublicPrefix + key
}

// KeyForRef converts a public reference back into its storage key.
// References that do not point into the upload area are rejected.
func KeyForRef(ref string) (string, error) {
	key, ok := strings.CutPrefix(ref, PublicPrefix)
	if !ok {
		return "", fmt.Errorf("%q is not an upload reference: %w", ref, ErrInvalidKey)
	}
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

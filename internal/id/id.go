// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the entities this service issues identifiers for.
const (
	PrefixCreator     = "crt"
	PrefixApplication = "app"
	PrefixAdmin       = "adm"
	PrefixSession     = "sess"
	PrefixImage       = "img"
)

// imageIDLength keeps stored asset names short; they are already scoped by creator.
const imageIDLength = 12

// Generate creates an identifier of the form prefix-nanoid (e.g. "crt-V1StGXR8_Z5jdHi6B-myT").
// It fails only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// ImageName returns a short random name for a stored image asset.
func ImageName() (string, error) {
	id, err := gonanoid.New(imageIDLength)
	if err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	return PrefixImage + "-" + id, nil
}

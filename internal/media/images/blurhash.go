package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize is the bounding box images are shrunk to before hashing.
// A placeholder hash looks the same from a 64px thumbnail as from the full image.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash placeholder for encoded image data.
// Uses 4x3 components, which keeps the hash around 20-30 characters.
func ComputeBlurHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > blurHashSize || b.Dy() > blurHashSize {
		img = imaging.Fit(img, blurHashSize, blurHashSize, imaging.Box)
	}

	hash, err := blurhash.Encode(4, 3, img)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

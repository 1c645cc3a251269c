package images

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	img := testImage(8, 8)

	tests := []struct {
		name    string
		data    []byte
		wantCT  string
		wantExt string
	}{
		{"png", encodePNG(t, img), "image/png", ".png"},
		{"jpeg", encodeJPEG(t, img), "image/jpeg", ".jpg"},
		{"gif", encodeGIF(t, img), "image/gif", ".gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ext, err := Detect(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCT, ct)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestDetect_RejectsNonImages(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty": nil,
		"text":  []byte("definitely not an image"),
		"pdf":   []byte("%PDF-1.7\n1 0 obj\n"),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Detect(data)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForKey("creators/crt-1/a.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForKey("creators/crt-1/a.JPEG"))
	assert.Equal(t, "image/webp", ContentTypeForKey("creators/crt-1/a.webp"))
	assert.Equal(t, "application/octet-stream", ContentTypeForKey("creators/crt-1/a.txt"))
}

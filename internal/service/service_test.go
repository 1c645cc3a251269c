package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmanorigins/tman-server/internal/media/images"
	"github.com/tmanorigins/tman-server/internal/store/sqlite"
)

// testEnv bundles a real SQLite store and a local image store rooted in a temp dir.
type testEnv struct {
	store  *sqlite.Store
	images *images.LocalStore
	logger *slog.Logger
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	imgs, err := images.NewLocalStore(dir, "uploads")
	require.NoError(t, err)

	return &testEnv{store: s, images: imgs, logger: logger}
}

// pngBytes encodes a small solid PNG.
func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefRoundTrip(t *testing.T) {
	key := CreatorKey("crt-1", "img-abc.webp")
	ref := RefForKey(key)

	assert.Equal(t, "/uploads/creators/crt-1/img-abc.webp", ref)

	got, err := KeyForRef(ref)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestKeyForRef_Rejects(t *testing.T) {
	for _, ref := range []string{
		"https://cdn.example.com/a.jpg",
		"/static/a.jpg",
		"/uploads/../etc/passwd",
		"/uploads/",
	} {
		_, err := KeyForRef(ref)
		assert.ErrorIs(t, err, ErrInvalidKey, "ref %q", ref)
	}
}

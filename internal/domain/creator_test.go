package domain

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreator_AppendImages_FirstBecomesCover(t *testing.T) {
	c := &Creator{}

	added := c.AppendImages("/a.jpg", "/b.jpg")

	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, added)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, c.Images)
	assert.Equal(t, "/a.jpg", c.Image)
}

func TestCreator_AppendImages_KeepsExistingCover(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg", "/b.jpg"}, Image: "/b.jpg"}

	c.AppendImages("/c.jpg")

	assert.Equal(t, []string{"/a.jpg", "/b.jpg", "/c.jpg"}, c.Images)
	assert.Equal(t, "/b.jpg", c.Image)
}

func TestCreator_AppendImages_NeverShrinksGallery(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg", "/b.jpg"}}
	before := append([]string(nil), c.Images...)

	c.AppendImages("/b.jpg", "/c.jpg", "", "/c.jpg")

	assert.Subset(t, c.Images, before)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg", "/c.jpg"}, c.Images)
}

func TestCreator_AppendImages_PromotesWhenCoverMissing(t *testing.T) {
	// A creator whose cover was removed earlier gets one again on the next update.
	c := &Creator{Images: []string{"/a.jpg"}}

	c.AppendImages()

	assert.Equal(t, "/a.jpg", c.Image)
}

func TestCreator_SetCover(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg", "/b.jpg"}, Image: "/a.jpg"}

	require.NoError(t, c.SetCover("/b.jpg"))
	assert.Equal(t, "/b.jpg", c.Image)

	err := c.SetCover("/missing.jpg")
	assert.ErrorIs(t, err, ErrImageNotInGallery)
	assert.Equal(t, "/b.jpg", c.Image)

	assert.ErrorIs(t, c.SetCover(""), ErrImageNotInGallery)
}

func TestCreator_RemoveImage_ClearsCoverWithoutPromotion(t *testing.T) {
	c := &Creator{
		Images:     []string{"/a.jpg", "/b.jpg"},
		Image:      "/a.jpg",
		BlurHashes: map[string]string{"/a.jpg": "LEHV6n", "/b.jpg": "L6PZfS"},
	}

	require.NoError(t, c.RemoveImage("/a.jpg"))

	assert.Equal(t, "", c.Image)
	assert.Equal(t, []string{"/b.jpg"}, c.Images)
	assert.NotContains(t, c.BlurHashes, "/a.jpg")
	assert.Contains(t, c.BlurHashes, "/b.jpg")
}

func TestCreator_RemoveImage_NonCoverKeepsCover(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg", "/b.jpg"}, Image: "/a.jpg"}

	require.NoError(t, c.RemoveImage("/b.jpg"))

	assert.Equal(t, "/a.jpg", c.Image)
	assert.Equal(t, []string{"/a.jpg"}, c.Images)
}

func TestCreator_RemoveImage_Unknown(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg"}, Image: "/a.jpg"}

	assert.ErrorIs(t, c.RemoveImage("/z.jpg"), ErrImageNotInGallery)
	assert.Equal(t, []string{"/a.jpg"}, c.Images)
}

func TestCreator_RemoveImage_DoesNotAliasClone(t *testing.T) {
	original := &Creator{Images: []string{"/a.jpg", "/b.jpg", "/c.jpg"}, Image: "/a.jpg"}
	clone := original.Clone()

	require.NoError(t, clone.RemoveImage("/a.jpg"))

	assert.Equal(t, []string{"/a.jpg", "/b.jpg", "/c.jpg"}, original.Images)
	assert.Equal(t, "/a.jpg", original.Image)
}

func TestCreator_ReconcileCover_DropsDanglingCover(t *testing.T) {
	c := &Creator{Images: []string{"/a.jpg", "/a.jpg", ""}, Image: "/gone.jpg"}

	c.ReconcileCover()

	assert.Equal(t, []string{"/a.jpg"}, c.Images)
	assert.Equal(t, "", c.Image)
}

// TestCreator_CoverInvariantHoldsUnderRandomOperations drives random sequences of gallery
// mutations and checks the cover is always empty or a gallery member.
func TestCreator_CoverInvariantHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	pool := []string{"/1.jpg", "/2.jpg", "/3.jpg", "/4.jpg", "/5.jpg"}

	for run := 0; run < 200; run++ {
		c := &Creator{}
		c.AppendImages(pool[rng.IntN(len(pool))])

		for step := 0; step < 30; step++ {
			ref := pool[rng.IntN(len(pool))]
			before := append([]string(nil), c.Images...)

			switch rng.IntN(3) {
			case 0:
				c.AppendImages(ref)
				assert.Subset(t, c.Images, before, "append must not shrink the gallery")
			case 1:
				_ = c.SetCover(ref)
			case 2:
				wasCover := c.Image == ref
				if c.RemoveImage(ref) == nil {
					assert.NotContains(t, c.Images, ref)
					if wasCover {
						assert.Equal(t, "", c.Image)
					}
				}
			}

			require.True(t, c.CoverValid(), fmt.Sprintf("run %d step %d: cover %q not in %v", run, step, c.Image, c.Images))
		}
	}
}

func TestCreator_ContactEmail(t *testing.T) {
	tests := []struct {
		name      string
		emailSlug string
		domain    string
		want      string
	}{
		{"with slug", "jane", "tmanorigins.com", "teamjane@tmanorigins.com"},
		{"without slug", "", "tmanorigins.com", "team@tmanorigins.com"},
		{"default domain", "max", "", "teammax@" + DefaultContactDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Creator{EmailSlug: tt.emailSlug}
			assert.Equal(t, tt.want, c.ContactEmail(tt.domain))
		})
	}
}

func TestCreator_ContactSubject(t *testing.T) {
	c := &Creator{Name: "Jane Doe"}
	assert.Equal(t, "Brand Collaboration Inquiry — Jane Doe", c.ContactSubject())
}

func TestRecord_TouchAlwaysAdvances(t *testing.T) {
	future := time.Now().Add(time.Hour)
	r := Record{UpdatedAt: future}

	r.Touch()

	assert.True(t, r.UpdatedAt.After(future))
}

func TestRecord_InitTimestamps(t *testing.T) {
	var r Record
	r.InitTimestamps()

	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmanorigins/tman-server/internal/api/apitest"
	"github.com/tmanorigins/tman-server/internal/client"
)

type harness struct {
	t       *testing.T
	api     string
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.NewServer(t)
	return &harness{
		t:       t,
		api:     srv.URL,
		session: filepath.Join(t.TempDir(), "session"),
	}
}

// run executes one tmanctl invocation, like a separate process would.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(append([]string{"--api", h.api, "--session-file", h.session, "--env-file", ""}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "tmanctl %v", args)
	return out
}

func (h *harness) login() {
	h.t.Helper()
	h.mustRun("login", "--email", apitest.AdminEmail, "--password", apitest.AdminPassword)
}

func writePNG(t *testing.T, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}

func TestLogin_PersistsSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("whoami")
	assert.EqualError(t, err, "not logged in: run `tmanctl login`")

	out := h.mustRun("login", "--email", apitest.AdminEmail, "--password", apitest.AdminPassword)
	assert.Contains(t, out, "Logged in as "+apitest.AdminEmail)

	saved, err := os.ReadFile(h.session)
	require.NoError(t, err)
	assert.NotEmpty(t, saved)

	out = h.mustRun("whoami")
	assert.Contains(t, out, apitest.AdminEmail)

	out = h.mustRun("logout")
	assert.Contains(t, out, "Logged out")
	_, err = os.Stat(h.session)
	assert.True(t, os.IsNotExist(err), "logout removes the session file")

	_, err = h.run("whoami")
	assert.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", apitest.AdminEmail, "--password", "nope")
	require.Error(t, err)

	_, statErr := os.Stat(h.session)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreators_Workflow(t *testing.T) {
	h := newHarness(t)
	h.login()

	red := writePNG(t, "red.png", color.RGBA{R: 255, A: 255})
	blue := writePNG(t, "blue.png", color.RGBA{B: 255, A: 255})

	out := h.mustRun("-o", "json", "creators", "create",
		"--name", "Jane Doe", "--bio", "Travel", "--featured",
		"--image", red, "--image", blue)

	var created client.Creator
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "jane-doe", created.Slug, "slug suggested from the name")
	assert.True(t, created.Featured)
	require.Len(t, created.Images, 2)
	assert.Equal(t, created.Images[0], created.Image)

	_, err := h.run("creators", "create", "--name", "Jane Again", "--slug", "jane-doe")
	require.Error(t, err, "slug already in use")

	out = h.mustRun("creators", "list")
	assert.Contains(t, out, "jane-doe")
	assert.Contains(t, out, "Jane Doe")

	out = h.mustRun("creators", "update", created.ID, "--bio", "Food", "--image", red)
	assert.Contains(t, out, "Updated (gallery appended)")

	out = h.mustRun("-o", "json", "creators", "show", "jane-doe")
	var updated client.Creator
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Food", updated.Bio)
	assert.Equal(t, "Jane Doe", updated.Name, "unset flags keep their values")
	require.Len(t, updated.Images, 3)

	second := path.Base(updated.Images[1])
	out = h.mustRun("creators", "cover", created.ID, second)
	assert.Contains(t, out, "Cover updated")

	out = h.mustRun("creators", "remove-image", created.ID, updated.Images[1])
	assert.Contains(t, out, "removed")

	out = h.mustRun("-o", "json", "creators", "show", "jane-doe")
	var trimmed client.Creator
	require.NoError(t, json.Unmarshal([]byte(out), &trimmed))
	assert.Len(t, trimmed.Images, 2)
	assert.Empty(t, trimmed.Image, "removing the cover clears it")

	h.mustRun("creators", "delete", created.ID)
	_, err = h.run("creators", "show", "jane-doe")
	assert.Error(t, err)
}

func TestApplications_Workflow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("apply", "--name", "Only Name")
	assert.EqualError(t, err, "Name and Email are required")

	out := h.mustRun("-o", "json", "apply", "--name", "Ann", "--email", "ann@example.com", "--niche", "food")
	var submitted client.Application
	require.NoError(t, json.Unmarshal([]byte(out), &submitted))
	assert.Equal(t, "new", string(submitted.Status))

	h.mustRun("apply", "--name", "Bob", "--email", "bob@example.com")

	_, err = h.run("applications", "list")
	assert.Error(t, err, "admin only")

	h.login()

	out = h.mustRun("applications", "list")
	assert.Contains(t, out, "Applications: 2 • New: 2")

	_, err = h.run("applications", "status", submitted.ID, "archived")
	assert.Error(t, err)

	out = h.mustRun("applications", "status", submitted.ID, "rejected")
	assert.Contains(t, out, "Application updated")
	h.mustRun("applications", "status", submitted.ID, "approved")

	out = h.mustRun("-o", "json", "applications", "list", "--status", "approved")
	var approved []client.Application
	require.NoError(t, json.Unmarshal([]byte(out), &approved))
	require.Len(t, approved, 1)
	assert.Equal(t, submitted.ID, approved[0].ID)

	h.mustRun("applications", "delete", submitted.ID)
	out = h.mustRun("applications", "list")
	assert.Contains(t, out, "Applications: 1 • New: 1")
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("health")
	assert.Contains(t, out, "version test")
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("-o", "yaml", "health")
	assert.EqualError(t, err, `invalid output format "yaml" (must be text or json)`)
}

func TestImageRef(t *testing.T) {
	assert.Equal(t, "/uploads/creators/crt-1/a.png", imageRef("crt-1", "a.png"))
	assert.Equal(t, "/uploads/creators/crt-1/a.png", imageRef("crt-1", "/uploads/creators/crt-1/a.png"))
}

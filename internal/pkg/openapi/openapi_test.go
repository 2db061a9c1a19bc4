package openapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docPath = "../../../docs/openapi.yml"

func TestLoadShippedDocument(t *testing.T) {
	doc, err := Load(docPath)
	require.NoError(t, err)

	item := doc.Paths.Find("/api/volumes")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.Len(t, item.Get.Parameters, 2)
	for _, p := range item.Get.Parameters {
		assert.True(t, p.Value.Required, p.Value.Name)
	}
	for _, status := range []string{"200", "400", "429", "500"} {
		assert.NotNil(t, item.Get.Responses.Value(status), status)
	}
}

func TestLoadRejectsBrokenDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestMount(t *testing.T) {
	app := fiber.New()
	assert.False(t, Mount(app, ""))
	assert.False(t, Mount(app, filepath.Join(t.TempDir(), "missing.yml")))
	require.True(t, Mount(app, docPath))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/api/v1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

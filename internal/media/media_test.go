package media

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasex/go-whatsapp-sender-console/pkg/mediastore"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

func newTestApp(t *testing.T) (*fiber.App, *mediastore.Catalog, string) {
	t.Helper()

	dir := t.TempDir()
	catalog := mediastore.NewCatalog(dir)
	ctl := NewController(catalog)

	app := fiber.New()
	app.Get("/api/media", ctl.List)
	app.Post("/api/media/upload", ctl.Upload)
	app.Post("/api/media/select", ctl.Select)
	return app, catalog, dir
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded router.Response
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.True(t, decoded.Status)
	return decoded.Data.(map[string]interface{})
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestListFlagsSelected(t *testing.T) {
	app, catalog, dir := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp4"), []byte("x"), 0o644))
	catalog.Select("b.mp4")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media", nil))
	require.NoError(t, err)

	data := decodeData(t, resp)
	entries := data["media"].([]interface{})
	require.Len(t, entries, 2)

	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	assert.Equal(t, "a.jpg", first["name"])
	assert.Equal(t, false, first["selected"])
	assert.Equal(t, "b.mp4", second["name"])
	assert.Equal(t, true, second["selected"])
}

func TestUploadStoresFile(t *testing.T) {
	app, catalog, _ := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "photo.jpg", []byte("data")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, ok := catalog.Find("photo.jpg")
	assert.True(t, ok)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, "doc.pdf", []byte("data")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSelectUnknownFile(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/media/select", strings.NewReader(`{"filename":"ghost.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSelectAndClear(t *testing.T) {
	app, catalog, dir := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0o644))

	req := httptest.NewRequest(http.MethodPost, "/api/media/select", strings.NewReader(`{"filename":"a.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a.jpg", catalog.SelectedName())

	req = httptest.NewRequest(http.MethodPost, "/api/media/select", strings.NewReader(`{"filename":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, catalog.SelectedName())
}

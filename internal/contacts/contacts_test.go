package contacts

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasex/go-whatsapp-sender-console/pkg/contact"
	"github.com/wasex/go-whatsapp-sender-console/pkg/router"
)

func newTestApp(t *testing.T) (*fiber.App, *contact.Directory) {
	t.Helper()

	directory := contact.NewDirectory(contact.NewFileStore(filepath.Join(t.TempDir(), "contacts.json")))
	ctl := NewController(directory)

	app := fiber.New()
	app.Get("/api/contacts", ctl.List)
	app.Post("/api/contacts", ctl.Add)
	app.Delete("/api/contacts", ctl.Clear)
	app.Post("/api/contacts/import", ctl.ImportSimple)
	app.Post("/api/contacts/import-google", ctl.ImportGoogle)
	return app, directory
}

func decodeResponse(t *testing.T, resp *http.Response) router.Response {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded router.Response
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAddAndListContacts(t *testing.T) {
	app, directory := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contacts", `{"phone":"11 2222-3333","name":"Ana"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, directory.Len())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	require.NoError(t, err)
	decoded := decodeResponse(t, resp)
	require.True(t, decoded.Status)

	data := decoded.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestAddContactRejectsBadPhone(t *testing.T) {
	app, directory := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contacts", `{"phone":"abc","name":"Ana"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, directory.Len())
}

func TestAddContactRejectsEmptyName(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contacts", `{"phone":"1122223333","name":"  "}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListContactsWithQuery(t *testing.T) {
	app, directory := newTestApp(t)
	directory.AddManual("1122223333", "Ana García")
	directory.AddManual("1144445555", "Beto")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/contacts?q=ana", nil))
	require.NoError(t, err)
	decoded := decodeResponse(t, resp)

	data := decoded.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestClearContacts(t *testing.T) {
	app, directory := newTestApp(t)
	directory.AddManual("1122223333", "Ana")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/contacts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, directory.Len())
}

func TestImportSimpleEndpoint(t *testing.T) {
	app, directory := newTestApp(t)

	body := `{"csv":"1122223333,Ana\n1144445555,Beto"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contacts/import", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, directory.Len())

	decoded := decodeResponse(t, resp)
	data := decoded.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["imported"])
}

func TestImportSimpleEmptyPayloadRejected(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/contacts/import", `{"csv":""}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartCSVRequest(t *testing.T, target, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportGoogleEndpoint(t *testing.T) {
	app, directory := newTestApp(t)
	directory.AddManual("1199998888", "Viejo")

	csv := "Name,Phone 1 - Value\nAna,1122223333\nBeto,1144445555\n"
	resp, err := app.Test(multipartCSVRequest(t, "/api/contacts/import-google", csv))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, directory.Len(), "import replaces the previous directory")
}

func TestImportGoogleEndpointRejectsMissingPhones(t *testing.T) {
	app, directory := newTestApp(t)
	directory.AddManual("1122223333", "Ana")

	csv := "Name,Email 1 - Value\nBeto,beto@example.com\n"
	resp, err := app.Test(multipartCSVRequest(t, "/api/contacts/import-google", csv))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, directory.Len(), "a rejected file leaves the directory intact")
}

func TestImportGoogleEndpointRequiresFile(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/contacts/import-google", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

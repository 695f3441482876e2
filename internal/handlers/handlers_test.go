package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	PutFunc    func(owner, filename string, data []byte) *models.Upload
	GetFunc    func(id uuid.UUID, owner string) (*models.Upload, error)
	DeleteFunc func(id uuid.UUID, owner string) error
}

func (m *MockSessionStore) Put(owner, filename string, data []byte) *models.Upload {
	if m.PutFunc != nil {
		return m.PutFunc(owner, filename, data)
	}
	return &models.Upload{ID: uuid.New(), Owner: owner, Filename: filename, Data: data, UploadedAt: time.Now()}
}

func (m *MockSessionStore) Get(id uuid.UUID, owner string) (*models.Upload, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id, owner)
	}
	return nil, services.ErrUploadNotFound
}

func (m *MockSessionStore) Delete(id uuid.UUID, owner string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, owner)
	}
	return services.ErrUploadNotFound
}

func newTestExplorer() *services.Explorer {
	renderer := services.NewChartRenderer(services.ChartOptions{Width: 480, Height: 240, HeatmapHeight: 360, HistogramBins: 10})
	return services.NewExplorer(services.NewParser(), renderer, 5)
}

// newTestApp wires both handlers the way cmd/api does, without auth
func newTestApp(store SessionStore) *fiber.App {
	validator := services.NewFileValidator(1024 * 1024)
	explorer := newTestExplorer()

	pages := NewExplorerHandler(validator, store, explorer, services.NewParser().SupportedExtensions())
	datasets := NewDatasetHandler(validator, store, explorer)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Get("/", pages.Index)
	app.Post("/upload", pages.Upload)
	app.Get("/datasets/:id", pages.Show)

	v1 := app.Group("/v1")
	v1.Post("/datasets", datasets.Create)
	v1.Get("/datasets/:id", datasets.Get)
	v1.Get("/datasets/:id/rows", datasets.Rows)
	v1.Get("/datasets/:id/charts/:kind", datasets.Chart)
	v1.Delete("/datasets/:id", datasets.Delete)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// uploadRequest builds a multipart request with an optional file and extra form fields
func uploadRequest(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return data
}

// storeWith returns a real session store holding one fixture
func storeWith(t *testing.T, name string) (*services.SessionStore, *models.Upload) {
	t.Helper()
	store := services.NewSessionStore(time.Minute, 8)
	return store, store.Put("", name, readFixture(t, name))
}

func decodeJSON(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	return result
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/testutil"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateDataset_Success tests parsing and storing an upload through the API
func TestCreateDataset_Success(t *testing.T) {
	var stored *models.Upload
	store := &MockSessionStore{
		PutFunc: func(owner, filename string, data []byte) *models.Upload {
			stored = &models.Upload{ID: uuid.New(), Owner: owner, Filename: filename, Data: data}
			return stored
		},
	}
	app := newTestApp(store)

	xlsx, err := testutil.XLSX(testutil.SalesRows())
	require.NoError(t, err)

	resp, body := doRequest(t, app, uploadRequest(t, "/v1/datasets", "sales.xlsx", xlsx, nil))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	require.NotNil(t, stored)

	result := decodeJSON(t, body)
	assert.Equal(t, true, result["success"])

	data := result["data"].(map[string]interface{})
	assert.Equal(t, stored.ID.String(), data["id"])
	assert.Equal(t, "sales.xlsx", data["filename"])

	report := data["report"].(map[string]interface{})
	assert.Equal(t, float64(6), report["rows"])
	assert.Equal(t, float64(4), report["columns"])
	assert.Len(t, report["statistics"], 2)
	assert.NotContains(t, report, "chart")
}

// TestCreateDataset_Errors tests the error responses of the upload endpoint
func TestCreateDataset_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"unsupported suffix", "data.json", []byte(`{"a":1}`), fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", services.MsgUnsupportedFormat},
		{"malformed csv", "malformed.csv", []byte("id,amount\n1,2\n3,4,5\n"), fiber.StatusUnprocessableEntity, "PARSE_ERROR", "Error processing file: "},
		{"corrupt parquet", "broken.parquet", []byte("not parquet at all"), fiber.StatusUnprocessableEntity, "PARSE_ERROR", "Error processing file: "},
		{"missing file", "", nil, fiber.StatusBadRequest, "BAD_REQUEST", services.MsgNoUpload},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockSessionStore{
				PutFunc: func(owner, filename string, data []byte) *models.Upload {
					t.Fatalf("upload %s must not be stored", filename)
					return nil
				},
			}
			app := newTestApp(store)

			resp, body := doRequest(t, app, uploadRequest(t, "/v1/datasets", tc.filename, tc.content, nil))
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			result := decodeJSON(t, body)
			assert.Equal(t, tc.wantCode, result["code"])
			assert.Contains(t, result["message"], tc.wantMsg)
		})
	}
}

// TestGetDataset tests reading the report of a stored upload
func TestGetDataset(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.txt")
	app := newTestApp(store)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/v1/datasets/"+upload.ID.String(), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	report := decodeJSON(t, body)["data"].(map[string]interface{})["report"].(map[string]interface{})
	assert.Equal(t, float64(10), report["rows"])
	assert.Equal(t, []interface{}{"species"}, report["categorical_columns"])

	stats := report["statistics"].([]interface{})
	first := stats[0].(map[string]interface{})
	assert.Equal(t, "sepal_length", first["column"])
	assert.Contains(t, first, "25%")
}

// TestGetDataset_NotFound tests an unknown dataset
func TestGetDataset_NotFound(t *testing.T) {
	app := newTestApp(services.NewSessionStore(0, 0))

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/v1/datasets/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeJSON(t, body)["code"])
}

// TestGetRows_Paging tests the paginated rows endpoint
func TestGetRows_Paging(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.csv")
	app := newTestApp(store)

	target := fmt.Sprintf("/v1/datasets/%s/rows?page=3&page_size=4", upload.ID)
	resp, body := doRequest(t, app, httptest.NewRequest("GET", target, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeJSON(t, body)
	rows := result["data"].(map[string]interface{})["rows"].([]interface{})
	assert.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"7.1", "3", "5.9", "2.1", "virginica"}, rows[0])

	pagination := result["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["page"])
	assert.Equal(t, float64(10), pagination["total"])
	assert.Equal(t, float64(3), pagination["pages"])
}

// TestGetRows_InvalidParams tests page validation
func TestGetRows_InvalidParams(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.csv")
	app := newTestApp(store)

	for _, query := range []string{"page=0", "page=abc", "page_size=0", "page_size=5000"} {
		target := fmt.Sprintf("/v1/datasets/%s/rows?%s", upload.ID, query)
		resp, _ := doRequest(t, app, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
	}
}

// TestGetChart_PNG tests that every chart kind renders as an image
func TestGetChart_PNG(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.csv")
	app := newTestApp(store)

	for _, kind := range models.ChartKinds {
		t.Run(string(kind), func(t *testing.T) {
			target := fmt.Sprintf("/v1/datasets/%s/charts/%s", upload.ID, kind)
			resp, body := doRequest(t, app, httptest.NewRequest("GET", target, nil))

			require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			assert.True(t, bytes.HasPrefix([]byte(body), []byte("\x89PNG")))
		})
	}
}

// TestGetChart_GuardWarning tests that unmet preconditions are reported as 422
func TestGetChart_GuardWarning(t *testing.T) {
	store, upload := storeWith(t, "single_numeric.csv")
	app := newTestApp(store)

	target := fmt.Sprintf("/v1/datasets/%s/charts/correlation-heatmap", upload.ID)
	resp, body := doRequest(t, app, httptest.NewRequest("GET", target, nil))

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	result := decodeJSON(t, body)
	assert.Equal(t, "CHART_UNAVAILABLE", result["code"])
	assert.Equal(t, services.MsgNeedTwoCorrelation, result["message"])
}

// TestGetChart_UnknownKind tests an invalid chart kind
func TestGetChart_UnknownKind(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.csv")
	app := newTestApp(store)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", fmt.Sprintf("/v1/datasets/%s/charts/pie", upload.ID), nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeJSON(t, body)["message"], "unknown chart kind")
}

// TestDeleteDataset tests discarding an upload
func TestDeleteDataset(t *testing.T) {
	store, upload := storeWith(t, "iris_sample.csv")
	app := newTestApp(store)

	resp, _ := doRequest(t, app, httptest.NewRequest("DELETE", "/v1/datasets/"+upload.ID.String(), nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest("GET", "/v1/datasets/"+upload.ID.String(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest("DELETE", "/v1/datasets/"+upload.ID.String(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/ashmitsharp/dataexplorer-api/internal/middleware"
	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	// DefaultPageSize is used when page_size is omitted
	DefaultPageSize = 50
	// MaxPageSize caps page_size for the rows endpoint
	MaxPageSize = 1000
)

// DatasetHandler exposes the explorer as a JSON API
type DatasetHandler struct {
	validator FileValidator
	store     SessionStore
	explorer  Explorer
}

// NewDatasetHandler creates a new dataset API handler
func NewDatasetHandler(validator FileValidator, store SessionStore, explorer Explorer) *DatasetHandler {
	return &DatasetHandler{
		validator: validator,
		store:     store,
		explorer:  explorer,
	}
}

// DatasetResponse is returned by the create and get endpoints
type DatasetResponse struct {
	ID         uuid.UUID      `json:"id"`
	Filename   string         `json:"filename"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Report     *models.Report `json:"report"`
}

// Create parses an upload and keeps it for later chart requests
// POST /v1/datasets (multipart: file)
func (h *DatasetHandler) Create(c fiber.Ctx) error {
	filename, data, err := readUpload(c, h.validator)
	if err != nil {
		return uploadAPIError(err)
	}

	// Parse before storing so broken files are never kept
	ds, err := h.explorer.Parse(data, filename)
	if err != nil {
		return utils.NewUnprocessableError("PARSE_ERROR", services.UserMessage(err), nil)
	}

	upload := h.store.Put(middleware.UserID(c), filename, data)
	return utils.CreatedResponse(c, DatasetResponse{
		ID:         upload.ID,
		Filename:   upload.Filename,
		UploadedAt: upload.UploadedAt,
		Report:     h.explorer.Summarize(ds),
	})
}

// Get returns the preview, column types and statistics of a dataset
// GET /v1/datasets/:id
func (h *DatasetHandler) Get(c fiber.Ctx) error {
	upload, ds, err := h.load(c)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, DatasetResponse{
		ID:         upload.ID,
		Filename:   upload.Filename,
		UploadedAt: upload.UploadedAt,
		Report:     h.explorer.Summarize(ds),
	})
}

// Rows returns one page of the table
// GET /v1/datasets/:id/rows?page=1&page_size=50
func (h *DatasetHandler) Rows(c fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return utils.NewBadRequestError("page must be a positive integer", nil)
	}
	pageSize, err := strconv.Atoi(c.Query("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > MaxPageSize {
		return utils.NewBadRequestError("page_size must be between 1 and "+strconv.Itoa(MaxPageSize), nil)
	}

	_, ds, err := h.load(c)
	if err != nil {
		return err
	}

	rows := h.explorer.Rows(ds, (page-1)*pageSize, pageSize)
	return utils.PaginatedResponse(c, rows, page, pageSize, ds.Rows())
}

// Chart renders one chart as PNG
// GET /v1/datasets/:id/charts/:kind?column=&x=&y=
func (h *DatasetHandler) Chart(c fiber.Ctx) error {
	req, err := chartRequest(c, c.Params("kind"))
	if err != nil {
		return utils.NewBadRequestError(err.Error(), models.ChartKinds)
	}

	_, ds, err := h.load(c)
	if err != nil {
		return err
	}

	chart, err := h.explorer.Chart(ds, req)
	if err != nil {
		var guard *services.GuardError
		if errors.As(err, &guard) {
			return utils.NewUnprocessableError("CHART_UNAVAILABLE", guard.Message, fiber.Map{"kind": guard.Kind})
		}
		return utils.NewInternalError(err)
	}

	return utils.PNGResponse(c, chart.PNG)
}

// Delete discards a stored upload
// DELETE /v1/datasets/:id
func (h *DatasetHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NewNotFoundError("dataset")
	}
	if err := h.store.Delete(id, middleware.UserID(c)); err != nil {
		return lookupAPIError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the stored upload and parses it for this request
func (h *DatasetHandler) load(c fiber.Ctx) (*models.Upload, *models.Dataset, error) {
	upload, err := lookupUpload(c, h.store, middleware.UserID(c))
	if err != nil {
		return nil, nil, lookupAPIError(err)
	}

	ds, err := h.explorer.Parse(upload.Data, upload.Filename)
	if err != nil {
		return nil, nil, utils.NewUnprocessableError("PARSE_ERROR", services.UserMessage(err), nil)
	}
	return upload, ds, nil
}

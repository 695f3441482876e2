package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// FileValidator interface defines the checks run on an upload before it is stored
type FileValidator interface {
	ValidateFile(reader io.Reader, filename string) (*services.ValidationResult, []byte, error)
}

// SessionStore interface holds raw uploads between render passes
type SessionStore interface {
	Put(owner, filename string, data []byte) *models.Upload
	Get(id uuid.UUID, owner string) (*models.Upload, error)
	Delete(id uuid.UUID, owner string) error
}

// Explorer interface parses uploads and builds the report sections
type Explorer interface {
	Parse(data []byte, filename string) (*models.Dataset, error)
	Summarize(ds *models.Dataset) *models.Report
	AttachChart(report *models.Report, ds *models.Dataset, req models.ChartRequest)
	Chart(ds *models.Dataset, req models.ChartRequest) (*models.Chart, error)
	Rows(ds *models.Dataset, offset, limit int) *models.Preview
}

var errNoFile = errors.New("no file uploaded")

// readUpload validates the multipart "file" field and returns its name and contents
func readUpload(c fiber.Ctx, validator FileValidator) (string, []byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, errNoFile
	}

	file, err := header.Open()
	if err != nil {
		return header.Filename, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	result, data, err := validator.ValidateFile(file, header.Filename)
	if err != nil {
		return header.Filename, nil, err
	}
	if result != nil {
		for _, warning := range result.Warnings {
			log.Printf("Warning: upload %s: %s", header.Filename, warning)
		}
	}
	return header.Filename, data, nil
}

// uploadFailure maps an intake error onto a status code and banner text
func uploadFailure(err error) (int, string) {
	switch {
	case errors.Is(err, errNoFile):
		return fiber.StatusBadRequest, services.MsgNoUpload
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType, services.MsgUnsupportedFormat
	default:
		return fiber.StatusBadRequest, services.UserMessage(err)
	}
}

func uploadAPIError(err error) *utils.APIError {
	status, message := uploadFailure(err)
	if status == fiber.StatusUnsupportedMediaType {
		return utils.NewUnsupportedMediaError(message)
	}
	return utils.NewBadRequestError(message, nil)
}

// lookupUpload resolves the :id route param for the current user
func lookupUpload(c fiber.Ctx, store SessionStore, owner string) (*models.Upload, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, services.ErrUploadNotFound
	}
	return store.Get(id, owner)
}

func lookupFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUploadNotFound):
		return fiber.StatusNotFound, "This upload has expired. Please upload the file again."
	case errors.Is(err, services.ErrUploadForbidden):
		return fiber.StatusForbidden, "forbidden - cannot access this dataset"
	default:
		return fiber.StatusInternalServerError, "An internal error occurred"
	}
}

func lookupAPIError(err error) *utils.APIError {
	switch {
	case errors.Is(err, services.ErrUploadNotFound):
		return utils.NewNotFoundError("dataset")
	case errors.Is(err, services.ErrUploadForbidden):
		return utils.NewForbiddenError("forbidden - cannot access this dataset")
	default:
		return utils.NewInternalError(err)
	}
}

// chartRequest reads the chart selection from the query string.
// The page form sends the bar chart column as "category".
func chartRequest(c fiber.Ctx, kind string) (models.ChartRequest, error) {
	parsed, err := models.ParseChartKind(kind)
	if err != nil {
		return models.ChartRequest{}, err
	}
	column := c.Query("column")
	if category := c.Query("category"); parsed == models.ChartBar && category != "" {
		column = category
	}
	return models.ChartRequest{
		Kind:   parsed,
		Column: column,
		X:      c.Query("x"),
		Y:      c.Query("y"),
	}, nil
}

package handlers

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashmitsharp/dataexplorer-api/internal/middleware"
	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	// num renders an optional statistic; undefined values print as NaN
	"num": func(v *float64) string {
		if v == nil {
			return "NaN"
		}
		return strconv.FormatFloat(*v, 'f', 6, 64)
	},
}

var pageTemplate = template.Must(template.New("explorer.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/explorer.html"))

// pageView is the data passed to the explorer page
type pageView struct {
	Accept   string
	Message  string
	UploadID string
	Report   *models.Report
	ChartURI template.URL
	Kinds    []models.ChartKind
}

// ExplorerHandler serves the single-page explorer UI
type ExplorerHandler struct {
	validator FileValidator
	store     SessionStore
	explorer  Explorer
	accept    string
}

// NewExplorerHandler creates a new explorer page handler
func NewExplorerHandler(validator FileValidator, store SessionStore, explorer Explorer, extensions []string) *ExplorerHandler {
	return &ExplorerHandler{
		validator: validator,
		store:     store,
		explorer:  explorer,
		accept:    strings.Join(extensions, ","),
	}
}

// Index renders the empty page with the upload form
// GET /
func (h *ExplorerHandler) Index(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, &pageView{Message: services.MsgNoUpload})
}

// Upload stores the file and redirects to its dataset page
// POST /upload (multipart: file, optional viz)
func (h *ExplorerHandler) Upload(c fiber.Ctx) error {
	filename, data, err := readUpload(c, h.validator)
	if err != nil {
		status, message := uploadFailure(err)
		if filename == "" {
			return h.render(c, status, &pageView{Message: message})
		}
		return h.render(c, status, &pageView{Report: &models.Report{Filename: filename, Error: message}})
	}

	upload := h.store.Put(middleware.UserID(c), filename, data)

	target := "/datasets/" + upload.ID.String()
	if viz := c.FormValue("viz"); viz != "" {
		target += "?viz=" + url.QueryEscape(viz)
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To(target)
}

// Show runs one render pass over a stored upload
// GET /datasets/:id?viz=&column=&category=&x=&y=
func (h *ExplorerHandler) Show(c fiber.Ctx) error {
	upload, err := lookupUpload(c, h.store, middleware.UserID(c))
	if err != nil {
		status, message := lookupFailure(err)
		return h.render(c, status, &pageView{Message: message})
	}

	req, err := chartRequest(c, c.Query("viz"))
	if err != nil {
		return h.render(c, fiber.StatusBadRequest, &pageView{UploadID: upload.ID.String(), Message: err.Error()})
	}

	ds, err := h.explorer.Parse(upload.Data, upload.Filename)
	if err != nil {
		return h.render(c, fiber.StatusUnprocessableEntity, &pageView{
			UploadID: upload.ID.String(),
			Report:   &models.Report{Filename: upload.Filename, Selection: req, Error: services.UserMessage(err)},
		})
	}

	report := h.explorer.Summarize(ds)
	h.explorer.AttachChart(report, ds, req)

	view := &pageView{UploadID: upload.ID.String(), Report: report}
	if report.Chart != nil {
		view.ChartURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(report.Chart.PNG))
	}
	return h.render(c, fiber.StatusOK, view)
}

func (h *ExplorerHandler) render(c fiber.Ctx, status int, view *pageView) error {
	view.Accept = h.accept
	view.Kinds = models.ChartKinds

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return utils.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

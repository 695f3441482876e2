package services

import (
	"errors"
	"io"
	"log"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
)

// DefaultPreviewRows is the number of rows shown in the table preview
const DefaultPreviewRows = 5

// Explorer runs one render pass: parse, preview, types, statistics and one chart
type Explorer struct {
	parser      *Parser
	charts      *ChartRenderer
	previewRows int
}

// NewExplorer creates a new explorer
func NewExplorer(parser *Parser, charts *ChartRenderer, previewRows int) *Explorer {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &Explorer{
		parser:      parser,
		charts:      charts,
		previewRows: previewRows,
	}
}

// Parser returns the parser used for ingestion
func (e *Explorer) Parser() *Parser {
	return e.parser
}

// Parse decodes an upload that was buffered by the validator
func (e *Explorer) Parse(data []byte, filename string) (*models.Dataset, error) {
	return e.parser.ParseBytes(data, filename)
}

// Rows returns one page of the table rendered as text
func (e *Explorer) Rows(ds *models.Dataset, offset, limit int) *models.Preview {
	return Rows(ds, offset, limit)
}

// Explore parses the upload and builds the full report including the selected chart.
// Ingestion failures are reported in Report.Error and guard failures in Report.Warning.
func (e *Explorer) Explore(file io.Reader, filename string, req models.ChartRequest) *models.Report {
	ds, err := e.parser.ParseFile(file, filename)
	if err != nil {
		return &models.Report{Filename: filename, Selection: req, Error: UserMessage(err)}
	}

	report := e.Summarize(ds)
	e.AttachChart(report, ds, req)
	return report
}

// Summarize builds the report sections that do not depend on the chart selection
func (e *Explorer) Summarize(ds *models.Dataset) *models.Report {
	report := &models.Report{
		Filename:           ds.Filename,
		Rows:               ds.Rows(),
		Columns:            ds.Columns(),
		Preview:            Preview(ds, e.previewRows),
		ColumnInfo:         Overview(ds),
		NumericColumns:     NumericColumns(ds),
		CategoricalColumns: CategoricalColumns(ds),
	}

	report.Statistics = Describe(ds)
	if report.Statistics == nil {
		report.StatisticsMessage = MsgNoNumericDescribe
	}
	return report
}

// AttachChart renders the selected chart into the report
func (e *Explorer) AttachChart(report *models.Report, ds *models.Dataset, req models.ChartRequest) {
	if req.Kind == "" {
		req.Kind = models.ChartHistogram
	}
	report.Selection = ResolveRequest(ds, req)

	chart, err := e.charts.Render(ds, report.Selection)
	if err != nil {
		var guard *GuardError
		if errors.As(err, &guard) {
			report.Warning = guard.Message
			return
		}
		log.Printf("Warning: chart %s failed for %s: %v", req.Kind, ds.Filename, err)
		report.Warning = err.Error()
		return
	}
	report.Chart = chart
}

// Chart renders only the selected chart for an already parsed dataset
func (e *Explorer) Chart(ds *models.Dataset, req models.ChartRequest) (*models.Chart, error) {
	return e.charts.Render(ds, ResolveRequest(ds, req))
}

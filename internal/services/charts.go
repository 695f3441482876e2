package services

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/wcharczuk/go-chart/v2"
)

// MaxBarCategories caps the number of bars drawn for a categorical column
const MaxBarCategories = 50

// ChartOptions controls chart geometry
type ChartOptions struct {
	Width         int
	Height        int
	HeatmapHeight int
	HistogramBins int
}

// DefaultChartOptions mirrors a 15x5 inch figure at 100 dpi
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:         1500,
		Height:        500,
		HeatmapHeight: 1000,
		HistogramBins: 20,
	}
}

// ChartRenderer draws the canned charts as PNG images
type ChartRenderer struct {
	opts ChartOptions
}

// NewChartRenderer creates a chart renderer; zero options fall back to defaults
func NewChartRenderer(opts ChartOptions) *ChartRenderer {
	def := DefaultChartOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.HeatmapHeight <= 0 {
		opts.HeatmapHeight = def.HeatmapHeight
	}
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = def.HistogramBins
	}
	return &ChartRenderer{opts: opts}
}

// Render draws the requested chart. Unmet preconditions are returned as *GuardError.
func (cr *ChartRenderer) Render(ds *models.Dataset, req models.ChartRequest) (*models.Chart, error) {
	switch req.Kind {
	case models.ChartHistogram:
		return cr.histogram(ds, req.Column)
	case models.ChartCorrelation:
		return cr.correlationHeatmap(ds)
	case models.ChartScatter:
		return cr.scatter(ds, req.X, req.Y)
	case models.ChartBar:
		return cr.bar(ds, req.Column)
	default:
		return nil, fmt.Errorf("unknown chart kind: %s", req.Kind)
	}
}

// ResolveRequest fills empty selectors with the same defaults the chart menu shows
func ResolveRequest(ds *models.Dataset, req models.ChartRequest) models.ChartRequest {
	numeric := NumericColumns(ds)
	switch req.Kind {
	case models.ChartHistogram:
		if req.Column == "" && len(numeric) > 0 {
			req.Column = numeric[0]
		}
	case models.ChartScatter:
		if req.X == "" && len(numeric) > 0 {
			req.X = numeric[0]
		}
		if req.Y == "" && len(numeric) > 1 {
			req.Y = numeric[1]
		}
	case models.ChartBar:
		categorical := CategoricalColumns(ds)
		if req.Column == "" && len(categorical) > 0 {
			req.Column = categorical[0]
		}
	}
	return req
}

func (cr *ChartRenderer) histogram(ds *models.Dataset, column string) (*models.Chart, error) {
	numeric := NumericColumns(ds)
	if len(numeric) == 0 {
		return nil, newGuardError(models.ChartHistogram, MsgNoNumericHistogram)
	}
	if column == "" {
		column = numeric[0]
	}
	if !hasColumn(numeric, column) {
		return nil, newGuardError(models.ChartHistogram, "Column %q is not available for %s.", column, models.ChartHistogram.Label())
	}

	edges, counts, err := Histogram(ds, column, cr.opts.HistogramBins)
	if err != nil {
		return nil, err
	}

	bars := make([]chart.Value, len(counts))
	for i, count := range counts {
		bars[i] = chart.Value{
			Label: strconv.FormatFloat(edges[i], 'g', 4, 64),
			Value: count,
		}
	}

	title := fmt.Sprintf("Histogram of %s", column)
	return cr.renderBars(models.ChartHistogram, title, "Frequency", bars, 0)
}

func (cr *ChartRenderer) bar(ds *models.Dataset, column string) (*models.Chart, error) {
	categorical := CategoricalColumns(ds)
	if len(categorical) == 0 {
		return nil, newGuardError(models.ChartBar, MsgNoCategorical)
	}
	if column == "" {
		column = categorical[0]
	}
	if !hasColumn(categorical, column) {
		return nil, newGuardError(models.ChartBar, "Column %q is not available for %s.", column, models.ChartBar.Label())
	}

	counts := ValueCounts(ds, column)
	if len(counts) == 0 {
		return nil, newGuardError(models.ChartBar, "No values to plot for %s.", column)
	}

	title := fmt.Sprintf("Bar Chart of %s", column)
	if len(counts) > MaxBarCategories {
		title = fmt.Sprintf("%s (top %d of %d)", title, MaxBarCategories, len(counts))
		counts = counts[:MaxBarCategories]
	}

	bars := make([]chart.Value, len(counts))
	for i, vc := range counts {
		bars[i] = chart.Value{Label: vc.Value, Value: float64(vc.Count)}
	}

	return cr.renderBars(models.ChartBar, title, "Count", bars, 45)
}

func (cr *ChartRenderer) renderBars(kind models.ChartKind, title, yName string, bars []chart.Value, labelRotation float64) (*models.Chart, error) {
	maxValue := 1.0
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
	}

	slot := (cr.opts.Width - 120) / len(bars)
	barWidth := slot * 4 / 5
	if barWidth < 1 {
		barWidth = 1
	}
	spacing := slot - barWidth
	if spacing < 1 {
		spacing = 1
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      cr.opts.Width,
		Height:     cr.opts.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{TextRotationDegrees: labelRotation},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.05},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind.Label(), err)
	}

	return &models.Chart{
		Kind:   kind,
		Title:  title,
		PNG:    buf.Bytes(),
		Width:  cr.opts.Width,
		Height: cr.opts.Height,
	}, nil
}

func (cr *ChartRenderer) scatter(ds *models.Dataset, x, y string) (*models.Chart, error) {
	numeric := NumericColumns(ds)
	if len(numeric) < 2 {
		return nil, newGuardError(models.ChartScatter, MsgNeedTwoScatter)
	}
	if x == "" {
		x = numeric[0]
	}
	if y == "" {
		y = numeric[1]
	}
	for _, col := range []string{x, y} {
		if !hasColumn(numeric, col) {
			return nil, newGuardError(models.ChartScatter, "Column %q is not available for %s.", col, models.ChartScatter.Label())
		}
	}

	xs, ys := completePairs(ds.Frame.Col(x).Float(), ds.Frame.Col(y).Float())
	if len(xs) == 0 {
		return nil, newGuardError(models.ChartScatter, "No values to plot for %s vs %s.", x, y)
	}

	title := fmt.Sprintf("Scatter Plot: %s vs %s", x, y)
	graph := chart.Chart{
		Title:      title,
		Width:      cr.opts.Width,
		Height:     cr.opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: x, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: y, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: title,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    chart.ColorBlue.WithAlpha(178),
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", models.ChartScatter.Label(), err)
	}

	return &models.Chart{
		Kind:   models.ChartScatter,
		Title:  title,
		PNG:    buf.Bytes(),
		Width:  cr.opts.Width,
		Height: cr.opts.Height,
	}, nil
}

// paddedRange keeps single-valued axes drawable
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func (cr *ChartRenderer) correlationHeatmap(ds *models.Dataset) (*models.Chart, error) {
	if len(NumericColumns(ds)) < 2 {
		return nil, newGuardError(models.ChartCorrelation, MsgNeedTwoCorrelation)
	}

	labels, matrix := Correlation(ds)
	title := "Correlation Heatmap"

	png, err := drawHeatmap(title, labels, matrix, cr.opts.Width, cr.opts.HeatmapHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", models.ChartCorrelation.Label(), err)
	}

	return &models.Chart{
		Kind:   models.ChartCorrelation,
		Title:  title,
		PNG:    png,
		Width:  cr.opts.Width,
		Height: cr.opts.HeatmapHeight,
	}, nil
}

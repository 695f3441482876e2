package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// dtype names shown in the column type listing
var dtypeNames = map[series.Type]string{
	series.Int:    "int64",
	series.Float:  "float64",
	series.String: "object",
	series.Bool:   "bool",
}

// ValueCount is the number of occurrences of one distinct value
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Overview returns the column names and inferred data types
func Overview(ds *models.Dataset) []models.ColumnInfo {
	names := ds.Frame.Names()
	types := ds.Frame.Types()

	infos := make([]models.ColumnInfo, len(names))
	for i, name := range names {
		t := types[i]
		// integer columns with gaps are widened to float
		if t == series.Int && ds.Frame.Col(name).HasNaN() {
			t = series.Float
		}
		dtype, ok := dtypeNames[t]
		if !ok {
			dtype = string(t)
		}
		infos[i] = models.ColumnInfo{Name: name, DataType: dtype}
	}
	return infos
}

// NumericColumns returns the names of integer and floating-point columns
func NumericColumns(ds *models.Dataset) []string {
	return columnsOfType(ds, series.Int, series.Float)
}

// CategoricalColumns returns the names of text columns
func CategoricalColumns(ds *models.Dataset) []string {
	return columnsOfType(ds, series.String)
}

func columnsOfType(ds *models.Dataset, want ...series.Type) []string {
	names := ds.Frame.Names()
	types := ds.Frame.Types()

	cols := []string{}
	for i, t := range types {
		for _, w := range want {
			if t == w {
				cols = append(cols, names[i])
				break
			}
		}
	}
	return cols
}

// Preview returns the header and the first n rows as display text
func Preview(ds *models.Dataset, n int) *models.Preview {
	return Rows(ds, 0, n)
}

// Rows returns up to limit rows starting at offset as display text
func Rows(ds *models.Dataset, offset, limit int) *models.Preview {
	names := ds.Frame.Names()
	preview := &models.Preview{Header: names, Rows: [][]string{}}

	total := ds.Frame.Nrow()
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > total {
		end = total
	}
	if offset >= end {
		return preview
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = ds.Frame.Col(name)
	}

	for r := offset; r < end; r++ {
		row := make([]string, len(cols))
		for c, col := range cols {
			row[c] = cellText(col.Elem(r), col.Type())
		}
		preview.Rows = append(preview.Rows, row)
	}
	return preview
}

func cellText(e series.Element, t series.Type) string {
	if e.IsNA() {
		return "NaN"
	}
	if t == series.Float {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}

// Describe computes count, mean, std, min, quartiles and max for every numeric column.
// Missing values are ignored. Returns nil when the table has no numeric columns.
func Describe(ds *models.Dataset) []models.ColumnStats {
	numeric := NumericColumns(ds)
	if len(numeric) == 0 {
		return nil
	}

	stats := make([]models.ColumnStats, 0, len(numeric))
	for _, name := range numeric {
		values := sortedValues(ds, name)
		cs := models.ColumnStats{Column: name, Count: len(values)}

		if len(values) > 0 {
			mean, std := stat.MeanStdDev(values, nil)
			cs.Mean = defined(mean)
			cs.Std = defined(std)
			cs.Min = defined(floats.Min(values))
			cs.Q25 = defined(quantile(0.25, values))
			cs.Q50 = defined(quantile(0.50, values))
			cs.Q75 = defined(quantile(0.75, values))
			cs.Max = defined(floats.Max(values))
		}

		stats = append(stats, cs)
	}
	return stats
}

// quantile interpolates linearly between the closest ranks of sorted values
func quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Correlation returns the Pearson correlation matrix of the numeric columns.
// Each pair uses only the rows where both values are present.
func Correlation(ds *models.Dataset) ([]string, [][]float64) {
	labels := NumericColumns(ds)
	columns := make([][]float64, len(labels))
	for i, name := range labels {
		columns[i] = ds.Frame.Col(name).Float()
	}

	matrix := make([][]float64, len(labels))
	for i := range labels {
		matrix[i] = make([]float64, len(labels))
		for j := range labels {
			if j < i {
				matrix[i][j] = matrix[j][i]
				continue
			}
			x, y := completePairs(columns[i], columns[j])
			if len(x) < 2 {
				matrix[i][j] = math.NaN()
				continue
			}
			matrix[i][j] = stat.Correlation(x, y, nil)
		}
	}
	return labels, matrix
}

// Histogram bins the values of a numeric column into equal-width bins.
// edges has bins+1 entries; counts has bins entries.
func Histogram(ds *models.Dataset, column string, bins int) (edges, counts []float64, err error) {
	if bins <= 0 {
		return nil, nil, fmt.Errorf("bins must be greater than 0")
	}

	values := sortedValues(ds, column)
	if len(values) == 0 {
		return nil, nil, newGuardError(models.ChartHistogram, "No values to plot for %s.", column)
	}

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges = floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram treats the upper divider as exclusive
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, values, nil)
	return edges, counts, nil
}

// ValueCounts counts the distinct non-missing values of a column, most frequent first
func ValueCounts(ds *models.Dataset, column string) []ValueCount {
	col := ds.Frame.Col(column)

	index := make(map[string]int)
	counts := []ValueCount{}
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		value := e.String()
		if pos, ok := index[value]; ok {
			counts[pos].Count++
			continue
		}
		index[value] = len(counts)
		counts = append(counts, ValueCount{Value: value, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// sortedValues returns the non-missing values of a column in ascending order
func sortedValues(ds *models.Dataset, column string) []float64 {
	raw := ds.Frame.Col(column).Float()
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return values
}

func completePairs(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

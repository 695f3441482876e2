package models

import (
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
)

// Format identifies how an uploaded file is decoded
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "txt" // tab-separated text
	FormatParquet Format = "parquet"
	FormatXLS     Format = "xls"
	FormatXLSX    Format = "xlsx"
)

// Dataset is the parsed table for a single render pass
type Dataset struct {
	Filename string
	Format   Format
	Frame    dataframe.DataFrame
}

// Rows returns the number of data rows (header excluded)
func (d *Dataset) Rows() int {
	return d.Frame.Nrow()
}

// Columns returns the number of columns
func (d *Dataset) Columns() int {
	return d.Frame.Ncol()
}

// ColumnInfo describes one column and its inferred storage type
type ColumnInfo struct {
	Name     string `json:"column"`
	DataType string `json:"data_type"` // int64, float64, object, bool
}

// ColumnStats holds the descriptive statistics for one numeric column.
// Nil values are undefined for the column (for example std of a single value).
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"25%"`
	Q50    *float64 `json:"50%"`
	Q75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// Preview is the header plus the first rows rendered as text
type Preview struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Chart is a rendered chart image
type Chart struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	PNG    []byte    `json:"-"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Report is everything shown for one uploaded file in one render pass
type Report struct {
	Filename           string        `json:"filename"`
	Rows               int           `json:"rows"`
	Columns            int           `json:"columns"`
	Preview            *Preview      `json:"preview,omitempty"`
	ColumnInfo         []ColumnInfo  `json:"column_info,omitempty"`
	Statistics         []ColumnStats `json:"statistics,omitempty"`
	StatisticsMessage  string        `json:"statistics_message,omitempty"`
	NumericColumns     []string      `json:"numeric_columns"`
	CategoricalColumns []string      `json:"categorical_columns"`
	Selection          ChartRequest  `json:"selection"`
	Chart              *Chart        `json:"chart,omitempty"`
	Warning            string        `json:"warning,omitempty"`
	Error              string        `json:"error,omitempty"`
}

// HasTable reports whether the upload was parsed into a table
func (r *Report) HasTable() bool {
	return r.Error == "" && r.Preview != nil
}

// Upload is a raw uploaded file kept in the session store between render passes
type Upload struct {
	ID         uuid.UUID `json:"id"`
	Owner      string    `json:"-"` // user_id from auth middleware, empty when auth is off
	Filename   string    `json:"filename"`
	Data       []byte    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

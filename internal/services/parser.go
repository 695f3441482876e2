package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/extrame/xls"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// Cell values treated as missing when inferring column types
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

var utf8BOM = []byte("\xef\xbb\xbf")

// Parser turns an uploaded file into an in-memory table
type Parser struct {
	formats map[string]models.Format
}

// NewParser creates a new parser instance with the supported suffixes
func NewParser() *Parser {
	return &Parser{
		formats: map[string]models.Format{
			".csv":     models.FormatCSV,
			".txt":     models.FormatTSV,
			".parquet": models.FormatParquet,
			".xls":     models.FormatXLS,
			".xlsx":    models.FormatXLSX,
		},
	}
}

// SupportedExtensions returns the accepted filename suffixes
func (p *Parser) SupportedExtensions() []string {
	return []string{".csv", ".xls", ".xlsx", ".txt", ".parquet"}
}

// DetectFormat infers the file format from the filename suffix
func (p *Parser) DetectFormat(filename string) (models.Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	format, ok := p.formats[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// ParseFile reads the whole upload and parses it according to its suffix
func (p *Parser) ParseFile(file io.Reader, filename string) (*models.Dataset, error) {
	format, err := p.DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	return p.parse(data, filename, format)
}

// ParseBytes parses an upload already held in memory
func (p *Parser) ParseBytes(data []byte, filename string) (*models.Dataset, error) {
	format, err := p.DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	return p.parse(data, filename, format)
}

func (p *Parser) parse(data []byte, filename string, format models.Format) (*models.Dataset, error) {
	if len(data) == 0 {
		return nil, &ParseError{Format: format, Err: errors.New("empty file")}
	}

	frame, err := p.decode(data, format)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	return &models.Dataset{
		Filename: filename,
		Format:   format,
		Frame:    frame,
	}, nil
}

func (p *Parser) decode(data []byte, format models.Format) (df dataframe.DataFrame, err error) {
	// the xls and parquet decoders panic on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed %s file: %v", format, r)
		}
	}()

	switch format {
	case models.FormatCSV:
		return parseDelimited(data, ',')
	case models.FormatTSV:
		return parseDelimited(data, '\t')
	case models.FormatParquet:
		return parseParquet(data)
	case models.FormatXLS:
		return parseXLS(data)
	case models.FormatXLSX:
		return parseXLSX(data)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// parseDelimited parses delimited text with the first row as header.
// Short rows are padded with missing values; rows wider than the header are rejected.
func parseDelimited(data []byte, delimiter rune) (dataframe.DataFrame, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataframe.DataFrame{}, err
		}

		if len(records) > 0 {
			width := len(records[0])
			if len(record) > width {
				line, _ := reader.FieldPos(0)
				return dataframe.DataFrame{}, fmt.Errorf("Expected %d fields in line %d, saw %d", width, line, len(record))
			}
			for len(record) < width {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return dataframe.DataFrame{}, errors.New("no columns to parse from file")
	}
	return loadRecords(records)
}

// parseXLSX parses the first sheet of an OOXML workbook
func parseXLSX(data []byte) (dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return loadSheetRecords(rows)
}

// parseXLS parses the first sheet of a legacy BIFF workbook
func parseXLS(data []byte) (dataframe.DataFrame, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if wb.NumSheets() == 0 {
		return dataframe.DataFrame{}, errors.New("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return dataframe.DataFrame{}, errors.New("failed to read first sheet")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	return loadSheetRecords(rows)
}

// loadSheetRecords turns ragged spreadsheet rows into a rectangular table.
// Blank or missing header cells are named "Unnamed: <index>".
func loadSheetRecords(rows [][]string) (dataframe.DataFrame, error) {
	if len(rows) == 0 || isEmptyRow(rows[0]) {
		return dataframe.DataFrame{}, errors.New("first sheet is empty")
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	records := make([][]string, len(rows))
	header := make([]string, width)
	for i := range header {
		if i < len(rows[0]) {
			header[i] = strings.TrimSpace(rows[0][i])
		}
		if header[i] == "" {
			header[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	records[0] = header

	for r, row := range rows[1:] {
		record := make([]string, width)
		copy(record, row)
		records[r+1] = record
	}

	return loadRecords(records)
}

// loadRecords builds a typed frame from a header row and its data rows.
// A header without data rows yields an empty frame of text columns.
func loadRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 1 {
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return df, df.Err
	}
	return df, nil
}

// parquetColumn is one leaf column of a parquet schema
type parquetColumn struct {
	name     string
	typ      series.Type
	repeated bool
}

// parseParquet decodes every row group of a parquet file using its embedded schema
func parseParquet(data []byte) (dataframe.DataFrame, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	schema := file.Schema()
	paths := schema.Columns()
	if len(paths) == 0 {
		return dataframe.DataFrame{}, errors.New("parquet schema has no columns")
	}

	columns := make([]parquetColumn, len(paths))
	for i, path := range paths {
		col := parquetColumn{name: strings.Join(path, "."), typ: series.String}
		if leaf, ok := schema.Lookup(path...); ok {
			col.repeated = leaf.MaxRepetitionLevel > 0
			if !col.repeated {
				col.typ = parquetSeriesType(leaf.Node.Type().Kind())
			}
		}
		columns[i] = col
	}

	values := make([][]interface{}, len(columns))
	buf := make([]parquet.Row, 256)

	for _, rowGroup := range file.RowGroups() {
		rows := rowGroup.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				appendParquetRow(values, columns, row)
			}
			if err == io.EOF || (err == nil && n == 0) {
				break
			}
			if err != nil {
				rows.Close()
				return dataframe.DataFrame{}, fmt.Errorf("failed to read row group: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to close row group: %w", err)
		}
	}

	cols := make([]series.Series, len(columns))
	for i, col := range columns {
		cols[i] = series.New(values[i], col.typ, col.name)
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return df, df.Err
	}
	return df, nil
}

// appendParquetRow appends one decoded row to the per-column value slices.
// Nulls are kept as nil so gota marks them NaN.
func appendParquetRow(values [][]interface{}, columns []parquetColumn, row parquet.Row) {
	cells := make([]interface{}, len(columns))
	var lists map[int][]string

	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(columns) || v.IsNull() {
			continue
		}
		if columns[c].repeated {
			if lists == nil {
				lists = make(map[int][]string)
			}
			lists[c] = append(lists[c], parquetText(v))
			continue
		}
		cells[c] = parquetValue(v)
	}

	for c, items := range lists {
		cells[c] = "[" + strings.Join(items, ", ") + "]"
	}

	for c := range columns {
		values[c] = append(values[c], cells[c])
	}
}

func parquetSeriesType(kind parquet.Kind) series.Type {
	switch kind {
	case parquet.Boolean:
		return series.Bool
	case parquet.Int32, parquet.Int64:
		return series.Int
	case parquet.Float, parquet.Double:
		return series.Float
	default:
		return series.String
	}
}

func parquetValue(v parquet.Value) interface{} {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int(v.Int32())
	case parquet.Int64:
		return int(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return parquetText(v)
	}
}

func parquetText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return fmt.Sprint(v)
	}
}

// isEmptyRow checks if all fields in a row are empty
func isEmptyRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

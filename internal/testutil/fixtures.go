// Package testutil builds binary dataset fixtures (xlsx, parquet) in memory.
package testutil

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

// Measurement is the row type used for parquet fixtures
type Measurement struct {
	Station string  `parquet:"station"`
	Reading float64 `parquet:"reading"`
	Count   int64   `parquet:"count"`
	Valid   bool    `parquet:"valid"`
	Note    *string `parquet:"note,optional"`
}

// SampleMeasurements returns n deterministic measurements; every third row has no note
func SampleMeasurements(n int) []Measurement {
	stations := []string{"north", "south", "east"}
	rows := make([]Measurement, n)
	for i := range rows {
		rows[i] = Measurement{
			Station: stations[i%len(stations)],
			Reading: 10.5 + float64(i)*1.25,
			Count:   int64(100 - i),
			Valid:   i%2 == 0,
		}
		if i%3 != 0 {
			note := fmt.Sprintf("reading %d", i)
			rows[i].Note = &note
		}
	}
	return rows
}

// Parquet encodes rows into an in-memory parquet file using the schema derived from T
func Parquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, rows); err != nil {
		return nil, fmt.Errorf("failed to write parquet: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX builds a workbook whose first sheet holds rows, starting at A1
func XLSX(rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SalesRows is a small sheet with mixed numeric and text columns
func SalesRows() [][]interface{} {
	return [][]interface{}{
		{"Region", "Product", "Units", "Revenue"},
		{"West", "Widget", 12, 240.5},
		{"East", "Gadget", 7, 199.99},
		{"West", "Gadget", 3, 85.0},
		{"North", "Widget", 20, 400.0},
		{"South", "Doohickey", 5, 62.25},
		{"East", "Widget", 9, 180.0},
	}
}

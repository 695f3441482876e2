package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ashmitsharp/dataexplorer-api/internal/testutil"
)

// Writes sample xlsx and parquet files for manual uploads.
// Run from the repository root: go run ./scripts
func main() {
	dir := "testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", dir, err)
	}

	generateSalesFixture(dir)
	generateMeasurementsFixture(dir)
	fmt.Println("\n✅ All fixtures generated successfully!")
}

func generateSalesFixture(dir string) {
	data, err := testutil.XLSX(testutil.SalesRows())
	if err != nil {
		log.Fatalf("Failed to build sales workbook: %v", err)
	}
	writeFixture(filepath.Join(dir, "sales_sample.xlsx"), data)
}

func generateMeasurementsFixture(dir string) {
	data, err := testutil.Parquet(testutil.SampleMeasurements(25))
	if err != nil {
		log.Fatalf("Failed to build measurements parquet: %v", err)
	}
	writeFixture(filepath.Join(dir, "measurements_sample.parquet"), data)
}

func writeFixture(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Printf("✓ Generated %s (%d bytes)\n", path, len(data))
}

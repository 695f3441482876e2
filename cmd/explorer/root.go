package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Inspect csv, txt, parquet, xls and xlsx files from the terminal",
	Long: `explorer prints the same preview, column types and summary statistics the web
explorer shows, and can render any of its charts to a PNG file.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newFormatsCmd())
}

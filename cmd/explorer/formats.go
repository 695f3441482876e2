package main

import (
	"fmt"
	"io"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file suffixes and chart kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFormats(cmd.OutOrStdout())
		},
	}
}

func printFormats(w io.Writer) error {
	parser := services.NewParser()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Suffix", "Format"})
	for _, ext := range parser.SupportedExtensions() {
		format, err := parser.DetectFormat("file" + ext)
		if err != nil {
			return err
		}
		table.Append([]string{ext, string(format)})
	}
	table.Render()

	fmt.Fprintln(w)
	charts := tablewriter.NewWriter(w)
	charts.SetHeader([]string{"Chart", "Kind"})
	for _, kind := range models.ChartKinds {
		charts.Append([]string{kind.Label(), string(kind)})
	}
	charts.Render()
	return nil
}

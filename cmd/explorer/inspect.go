package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	rows   int
	chart  string
	column string
	x      string
	y      string
	out    string
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print preview, column types and statistics for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", services.DefaultPreviewRows, "number of preview rows")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "render a chart (histogram, correlation-heatmap, scatter-plot, bar-chart)")
	cmd.Flags().StringVar(&opts.column, "column", "", "column for histogram or bar chart")
	cmd.Flags().StringVar(&opts.x, "x", "", "x column for scatter plot")
	cmd.Flags().StringVar(&opts.y, "y", "", "y column for scatter plot")
	cmd.Flags().StringVar(&opts.out, "out", "", "PNG output path (default <file>.<chart>.png)")
	return cmd
}

func runInspect(w io.Writer, path string, opts *inspectOptions) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	explorer := services.NewExplorer(services.NewParser(), services.NewChartRenderer(services.DefaultChartOptions()), opts.rows)

	ds, err := explorer.Parser().ParseFile(file, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("%s", services.UserMessage(err))
	}

	report := explorer.Summarize(ds)
	printReport(w, report)

	if opts.chart == "" {
		return nil
	}

	kind, err := models.ParseChartKind(opts.chart)
	if err != nil {
		return err
	}
	explorer.AttachChart(report, ds, models.ChartRequest{Kind: kind, Column: opts.column, X: opts.x, Y: opts.y})
	if report.Warning != "" {
		fmt.Fprintf(w, "\n⚠ %s\n", report.Warning)
		return nil
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("%s.%s.png", path, kind)
	}
	if err := os.WriteFile(out, report.Chart.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(w, "\n✓ %s written to %s\n", report.Chart.Title, out)
	return nil
}

func printReport(w io.Writer, report *models.Report) {
	fmt.Fprintf(w, "%s: %d rows, %d columns\n\n", report.Filename, report.Rows, report.Columns)

	preview := tablewriter.NewWriter(w)
	preview.SetHeader(report.Preview.Header)
	preview.SetAutoFormatHeaders(false)
	preview.AppendBulk(report.Preview.Rows)
	preview.Render()

	fmt.Fprintln(w)
	types := tablewriter.NewWriter(w)
	types.SetHeader([]string{"Column", "Data Type"})
	types.SetAutoFormatHeaders(false)
	for _, info := range report.ColumnInfo {
		types.Append([]string{info.Name, info.DataType})
	}
	types.Render()

	fmt.Fprintln(w)
	if report.Statistics == nil {
		fmt.Fprintln(w, report.StatisticsMessage)
		return
	}

	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	stats.SetAutoFormatHeaders(false)
	for _, s := range report.Statistics {
		stats.Append([]string{
			s.Column,
			strconv.Itoa(s.Count),
			formatStat(s.Mean),
			formatStat(s.Std),
			formatStat(s.Min),
			formatStat(s.Q25),
			formatStat(s.Q50),
			formatStat(s.Q75),
			formatStat(s.Max),
		})
	}
	stats.Render()
}

func formatStat(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

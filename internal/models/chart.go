package models

import (
	"fmt"
	"strings"
)

// ChartKind is one of the canned visualizations offered in the chart menu
type ChartKind string

const (
	ChartHistogram   ChartKind = "histogram"
	ChartCorrelation ChartKind = "correlation-heatmap"
	ChartScatter     ChartKind = "scatter-plot"
	ChartBar         ChartKind = "bar-chart"
)

// ChartKinds lists the menu entries in display order
var ChartKinds = []ChartKind{ChartHistogram, ChartCorrelation, ChartScatter, ChartBar}

var chartLabels = map[ChartKind]string{
	ChartHistogram:   "Histogram",
	ChartCorrelation: "Correlation Heatmap",
	ChartScatter:     "Scatter Plot",
	ChartBar:         "Bar Chart",
}

// Label returns the menu label for the chart kind
func (k ChartKind) Label() string {
	if label, ok := chartLabels[k]; ok {
		return label
	}
	return string(k)
}

// ParseChartKind accepts either a slug ("scatter-plot") or a menu label ("Scatter Plot").
// An empty string selects the first menu entry.
func ParseChartKind(s string) (ChartKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChartHistogram, nil
	}
	for _, kind := range ChartKinds {
		if strings.EqualFold(s, string(kind)) || strings.EqualFold(s, kind.Label()) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind: %s", s)
}

// ChartRequest is the user's chart selection. Empty column fields fall back to defaults.
type ChartRequest struct {
	Kind   ChartKind `json:"kind"`
	Column string    `json:"column,omitempty"` // histogram and bar chart
	X      string    `json:"x,omitempty"`      // scatter plot
	Y      string    `json:"y,omitempty"`      // scatter plot
}

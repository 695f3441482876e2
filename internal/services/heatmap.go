package services

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// coolwarm anchor colors for -1, 0 and +1
var (
	heatCold    = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	heatNeutral = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	heatHot     = drawing.Color{R: 180, G: 4, B: 38, A: 255}
	heatMissing = drawing.Color{R: 245, G: 245, B: 245, A: 255}
)

const (
	heatTitleSize = 16.0
	heatLabelSize = 11.0
	heatCellSize  = 10.0
	heatBarWidth  = 24
)

// drawHeatmap draws an annotated correlation matrix with a color bar
func drawHeatmap(title string, labels []string, matrix [][]float64, width, height int) ([]byte, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	fillRect(r, 0, 0, width, height, drawing.ColorWhite)

	r.SetFontSize(heatTitleSize)
	r.SetFontColor(drawing.ColorBlack)
	tb := r.MeasureText(title)
	r.Text(title, (width-tb.Width())/2, 30)

	r.SetFontSize(heatLabelSize)
	labelWidth := 0
	for _, l := range labels {
		if w := r.MeasureText(l).Width(); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > width/4 {
		labelWidth = width / 4
	}

	top, bottom := 50, height-40
	left, right := labelWidth+20, width-heatBarWidth-80
	n := len(labels)
	cellW := (right - left) / n
	cellH := (bottom - top) / n
	if cellW < 1 || cellH < 1 {
		return nil, fmt.Errorf("too many columns (%d) for a %dx%d heatmap", n, width, height)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0, y0 := left+j*cellW, top+i*cellH
			v := matrix[i][j]
			fillRect(r, x0, y0, x0+cellW, y0+cellH, heatColor(v))

			text := "nan"
			if !math.IsNaN(v) {
				text = fmt.Sprintf("%.2f", v)
			}
			r.SetFontSize(heatCellSize)
			r.SetFontColor(drawing.ColorBlack)
			if math.Abs(v) > 0.6 {
				r.SetFontColor(drawing.ColorWhite)
			}
			box := r.MeasureText(text)
			if box.Width() < cellW && box.Height() < cellH {
				r.Text(text, x0+(cellW-box.Width())/2, y0+(cellH+box.Height())/2)
			}
		}
	}

	// axis labels
	r.SetFontSize(heatLabelSize)
	r.SetFontColor(drawing.ColorBlack)
	for i, l := range labels {
		row := fitText(r, l, labelWidth)
		box := r.MeasureText(row)
		r.Text(row, left-box.Width()-8, top+i*cellH+(cellH+box.Height())/2)

		col := fitText(r, l, cellW-4)
		box = r.MeasureText(col)
		r.Text(col, left+i*cellW+(cellW-box.Width())/2, bottom+box.Height()+8)
	}

	drawColorBar(r, right+30, top, bottom)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawColorBar draws the -1..+1 legend from top (+1) to bottom (-1)
func drawColorBar(r chart.Renderer, x, top, bottom int) {
	const steps = 40
	stepH := float64(bottom-top) / steps
	for s := 0; s < steps; s++ {
		v := 1 - 2*(float64(s)+0.5)/steps
		y0 := top + int(float64(s)*stepH)
		y1 := top + int(float64(s+1)*stepH)
		fillRect(r, x, y0, x+heatBarWidth, y1, heatColor(v))
	}

	r.SetFontSize(heatLabelSize)
	r.SetFontColor(drawing.ColorBlack)
	for _, tick := range []float64{1, 0, -1} {
		y := top + int((1-tick)/2*float64(bottom-top))
		r.Text(fmt.Sprintf("%.1f", tick), x+heatBarWidth+6, y+4)
	}
}

// heatColor maps a correlation in [-1, 1] onto the diverging palette
func heatColor(v float64) drawing.Color {
	if math.IsNaN(v) {
		return heatMissing
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerpColor(heatNeutral, heatCold, -v)
	}
	return lerpColor(heatNeutral, heatHot, v)
}

func lerpColor(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func fillRect(r chart.Renderer, left, top, right, bottom int, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	r.MoveTo(left, top)
	r.LineTo(right, top)
	r.LineTo(right, bottom)
	r.LineTo(left, bottom)
	r.LineTo(left, top)
	r.Close()
	r.FillStroke()
}

// fitText truncates text with an ellipsis until it fits maxWidth pixels
func fitText(r chart.Renderer, text string, maxWidth int) string {
	if r.MeasureText(text).Width() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if r.MeasureText(candidate).Width() <= maxWidth {
			return candidate
		}
	}
	return ""
}

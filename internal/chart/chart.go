// Package chart renders sales series as PNG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoPoints is returned when there is nothing to draw.
var ErrNoPoints = errors.New("chart: no points to plot")

// Image size of both charts.
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

const maxYearTicks = 10

var (
	historyColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// History draws the sales history of one item: Ventes against Année.
func History(series core.SalesSeries) ([]byte, error) {
	if series.Len() == 0 {
		return nil, ErrNoPoints
	}

	p := newPlot("Historique des ventes : " + series.Item)

	line, err := plotter.NewLine(toXYs(series.Points))
	if err != nil {
		return nil, fmt.Errorf("history line: %w", err)
	}
	line.Color = historyColor
	p.Add(line)

	return render(p)
}

// Forecast draws history followed by forecast points as one marked line,
// titled "Ventes prévues pour <item>". When forecastFrom is a valid index the
// forecast part is overdrawn in a second colour and listed in the legend.
func Forecast(item string, points []core.Point, forecastFrom int) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	p := newPlot("Ventes prévues pour " + item)

	line, scatter, err := plotter.NewLinePoints(toXYs(points))
	if err != nil {
		return nil, fmt.Errorf("forecast line: %w", err)
	}
	line.Color = historyColor
	scatter.Color = historyColor
	scatter.Shape = draw.CircleGlyph{}
	p.Add(line, scatter)
	p.Legend.Add("Historique", line, scatter)

	if forecastFrom > 0 && forecastFrom < len(points) {
		// Start from the last observed point so the two parts join.
		fline, fscatter, err := plotter.NewLinePoints(toXYs(points[forecastFrom-1:]))
		if err != nil {
			return nil, fmt.Errorf("forecast part: %w", err)
		}
		fline.Color = forecastColor
		fline.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		fscatter.Color = forecastColor
		fscatter.Shape = draw.CircleGlyph{}
		p.Add(fline, fscatter)
		p.Legend.Add("Prévision", fline, fscatter)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return render(p)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = core.ColumnYear
	p.Y.Label.Text = core.ColumnQuantity
	p.X.Tick.Marker = yearTicks{}
	p.Add(plotter.NewGrid())
	return p
}

func render(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func toXYs(points []core.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Year)
		xys[i].Y = pt.Quantity
	}
	return xys
}

// yearTicks labels only whole years, at most maxYearTicks of them.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	first, last := math.Ceil(min), math.Floor(max)
	if last < first {
		return []plot.Tick{{Value: min, Label: strconv.Itoa(int(math.Round(min)))}}
	}
	step := math.Max(1, math.Ceil((last-first+1)/maxYearTicks))

	var ticks []plot.Tick
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}

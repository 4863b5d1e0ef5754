package plot

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"Separator/internal/calc/separator"
)

// PNG renders d as a raster chart.
func PNG(w io.Writer, d separator.RenderDirective) error {
	graph := Chart(d)
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func Chart(d separator.RenderDirective) chart.Chart {
	series := []chart.Series{}
	for _, b := range d.Bands {
		series = append(series, chart.ContinuousSeries{
			Name:    b.Label,
			XValues: []float64{b.FromM, b.ToM},
			YValues: []float64{1, 1},
			Style: chart.Style{
				StrokeColor: color(separator.ColorEdge),
				StrokeWidth: 1,
				FillColor:   color(b.Color),
			},
		})
	}
	for _, m := range d.Markers {
		st := chart.Style{
			StrokeColor: color(m.Color),
			StrokeWidth: m.Width,
		}
		if m.Style == separator.LineDashed {
			st.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    m.Label,
			XValues: []float64{m.XM, m.XM},
			YValues: []float64{0, 1},
			Style:   st,
		})
	}

	ticks := make([]chart.Tick, 0, len(d.Ticks))
	for _, tk := range d.Ticks {
		ticks = append(ticks, chart.Tick{Value: tk.Value, Label: tk.Label})
	}

	title := d.Title
	if d.Warning != "" {
		title = d.Warning
	}
	graph := chart.Chart{
		Title:      title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           d.XLabel,
			Range:          &chart.ContinuousRange{Min: d.XMin, Max: d.XMax},
			Ticks:          ticks,
			GridMajorStyle: chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 0.8},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	return graph
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

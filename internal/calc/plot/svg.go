package plot

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"Separator/internal/calc/separator"
)

const (
	Width  = 600
	Height = 250

	plotLeft   = 40
	plotRight  = 580
	plotTop    = 40
	plotBottom = 140
)

// SVG draws the cross-section described by d.
func SVG(w io.Writer, d separator.RenderDirective) error {
	canvas := svg.New(w)
	canvas.Start(Width, Height)
	canvas.Title(d.Title)
	canvas.Rect(0, 0, Width, Height, "fill:white")
	canvas.Text(Width/2, 22, d.Title, "text-anchor:middle;font-size:14px;font-family:sans-serif")

	for _, b := range d.Bands {
		x0, x1 := xpx(d, b.FromM), xpx(d, b.ToM)
		canvas.Rect(x0, plotTop, x1-x0, plotBottom-plotTop,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", b.Color, separator.ColorEdge))
	}

	for _, tk := range d.Ticks {
		x := xpx(d, tk.Value)
		canvas.Line(x, plotTop, x, plotBottom, "stroke:#b0b0b0;stroke-width:0.8")
		canvas.Line(x, plotBottom, x, plotBottom+5, "stroke:black")
		canvas.Text(x, plotBottom+18, tk.Label, "text-anchor:middle;font-size:10px;font-family:sans-serif")
	}
	canvas.Line(plotLeft, plotBottom, plotRight, plotBottom, "stroke:black")
	canvas.Text((plotLeft+plotRight)/2, plotBottom+34, d.XLabel, "text-anchor:middle;font-size:11px;font-family:sans-serif")

	for _, m := range d.Markers {
		x := xpx(d, m.XM)
		canvas.Line(x, plotTop, x, plotBottom, markerStyle(m))
	}

	legend(canvas, d)
	if d.Warning != "" {
		canvas.Text(Width/2, Height-6, d.Warning, "text-anchor:middle;font-size:10px;fill:#b00000;font-family:sans-serif")
	}
	canvas.End()
	return nil
}

func legend(canvas *svg.SVG, d separator.RenderDirective) {
	const perRow = 3
	colW := (plotRight - plotLeft) / perRow
	i := 0
	for _, b := range d.Bands {
		x, y := plotLeft+(i%perRow)*colW, plotBottom+48+(i/perRow)*16
		canvas.Rect(x, y-9, 18, 10, fmt.Sprintf("fill:%s;stroke:%s", b.Color, separator.ColorEdge))
		canvas.Text(x+24, y, b.Label, "font-size:10px;font-family:sans-serif")
		i++
	}
	for _, m := range d.Markers {
		x, y := plotLeft+(i%perRow)*colW, plotBottom+48+(i/perRow)*16
		canvas.Line(x, y-4, x+18, y-4, markerStyle(m))
		canvas.Text(x+24, y, m.Label, "font-size:10px;font-family:sans-serif")
		i++
	}
}

func markerStyle(m separator.Marker) string {
	s := fmt.Sprintf("stroke:%s;stroke-width:%g", m.Color, m.Width)
	if m.Style == separator.LineDashed {
		s += ";stroke-dasharray:6,4"
	}
	return s
}

func xpx(d separator.RenderDirective, v float64) int {
	span := d.XMax - d.XMin
	if span <= 0 {
		span = 1
	}
	return plotLeft + int(math.Round((v-d.XMin)/span*float64(plotRight-plotLeft)))
}

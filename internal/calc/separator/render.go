package separator

import (
	"fmt"
	"math"
)

type Phase string

const (
	PhaseLight Phase = "light"
	PhaseHeavy Phase = "heavy"
)

type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

const (
	ColorLight   = "#ffff00"
	ColorHeavy   = "#0000ff"
	ColorEdge    = "#000000"
	ColorWeir1   = "#008000"
	ColorWeir2   = "#0000ff"
	ColorChannel = "#800080"

	TickCount = 9
)

type Band struct {
	Phase Phase   `json:"phase"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	FromM float64 `json:"from_m"`
	ToM   float64 `json:"to_m"`
}

type Marker struct {
	Label string    `json:"label"`
	XM    float64   `json:"x_m"`
	Color string    `json:"color"`
	Style LineStyle `json:"style"`
	Width float64   `json:"width"`
}

type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// RenderDirective is everything a renderer needs to draw one cross-section.
type RenderDirective struct {
	Title   string   `json:"title"`
	XLabel  string   `json:"x_label"`
	XMin    float64  `json:"x_min"`
	XMax    float64  `json:"x_max"`
	Bands   []Band   `json:"bands"`
	Markers []Marker `json:"markers"`
	Ticks   []Tick   `json:"ticks"`
	Warning string   `json:"warning,omitempty"`
}

func BuildDirective(c Config, res Result) RenderDirective {
	d := RenderDirective{
		Title:   "Interface and Features Across Bowl Radius",
		XLabel:  "Radius (m)",
		XMin:    0,
		XMax:    c.BowlRadiusM,
		Markers: markers(c),
		Ticks:   Ticks(c.BowlRadiusM),
	}
	switch {
	case res.Valid:
		d.Bands = []Band{
			{Phase: PhaseLight, Label: "Light Phase", Color: ColorLight, FromM: 0, ToM: res.RadiusM},
			{Phase: PhaseHeavy, Label: "Heavy Phase", Color: ColorHeavy, FromM: res.RadiusM, ToM: c.BowlRadiusM},
		}
	default:
		d.Bands = []Band{
			{Phase: PhaseHeavy, Label: "Heavy Phase", Color: ColorHeavy, FromM: 0, ToM: c.BowlRadiusM},
		}
		d.Warning = res.Reason.Message()
	}
	return d
}

// markers are drawn as given, even outside [0, bowl].
func markers(c Config) []Marker {
	return []Marker{
		{Label: "r1 (Light Weir)", XM: c.R1Meters, Color: ColorWeir1, Style: LineSolid, Width: 2},
		{Label: "r2 (Heavy Weir)", XM: c.R2Meters, Color: ColorWeir2, Style: LineSolid, Width: 2},
		{Label: "Rising Channel", XM: c.ChannelMeters, Color: ColorChannel, Style: LineDashed, Width: 2},
	}
}

// Ticks returns TickCount evenly spaced positions over [0, bowl], rounded to 3 decimals.
func Ticks(bowl float64) []Tick {
	ticks := make([]Tick, 0, TickCount)
	for i := 0; i < TickCount; i++ {
		v := bowl * float64(i) / float64(TickCount-1)
		if i == TickCount-1 {
			v = bowl
		}
		v = math.Round(v*1000) / 1000
		ticks = append(ticks, Tick{Value: v, Label: fmt.Sprintf("%.3f", v)})
	}
	return ticks
}

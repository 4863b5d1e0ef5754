package autodesign

import (
	"fmt"

	"Separator/internal/calc/separator"
)

const (
	MinSteps = 2
	MaxSteps = 500
)

type SweepInput struct {
	Config separator.Config `json:"config"`
	R2From float64          `json:"r2_from_m"`
	R2To   float64          `json:"r2_to_m"`
	Steps  int              `json:"steps"`
}

type Point struct {
	R2Meters float64          `json:"r2_m"`
	Result   separator.Result `json:"result"`
}

type SweepResult struct {
	Points     []Point `json:"points"`
	ValidFrom  float64 `json:"valid_from_m,omitempty"`
	ValidTo    float64 `json:"valid_to_m,omitempty"`
	ValidCount int     `json:"valid_count"`
	Notes      string  `json:"notes"`
}

// SweepHeavyWeir evaluates the interface for evenly spaced r2 values, keeping the
// rest of the config fixed, and reports the r2 span that gave a valid interface.
func SweepHeavyWeir(in SweepInput) (SweepResult, error) {
	if in.Steps == 0 {
		in.Steps = 50
	}
	if in.Steps < MinSteps || in.Steps > MaxSteps {
		return SweepResult{}, fmt.Errorf("steps must be in [%d, %d]", MinSteps, MaxSteps)
	}
	if in.R2From <= 0 || in.R2To <= in.R2From {
		return SweepResult{}, fmt.Errorf("invalid r2 range")
	}
	if err := separator.Validate(in.Config); err != nil {
		return SweepResult{}, err
	}

	out := SweepResult{
		Points: make([]Point, 0, in.Steps),
		Notes:  "Interface radius as a function of the heavy phase weir radius.",
	}
	step := (in.R2To - in.R2From) / float64(in.Steps-1)
	for i := 0; i < in.Steps; i++ {
		cfg := in.Config
		cfg.R2Meters = in.R2From + float64(i)*step
		if i == in.Steps-1 {
			cfg.R2Meters = in.R2To
		}
		res := separator.ComputeInterface(cfg)
		if res.Valid {
			if out.ValidCount == 0 {
				out.ValidFrom = cfg.R2Meters
			}
			out.ValidTo = cfg.R2Meters
			out.ValidCount++
		}
		out.Points = append(out.Points, Point{R2Meters: cfg.R2Meters, Result: res})
	}
	return out, nil
}

package separator

import (
	"fmt"
	"math"
)

type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonEqualDensities       Reason = "equal_densities"
	ReasonNegativeOrZeroSquare Reason = "negative_or_zero_square"
	ReasonRadiusExceedsBowl    Reason = "radius_exceeds_bowl"
)

func (r Reason) Message() string {
	switch r {
	case ReasonEqualDensities:
		return "Cannot compute interface position (R): phase densities are equal."
	case ReasonNegativeOrZeroSquare:
		return "Cannot compute interface position (R): no physical interface exists for these weir radii and densities."
	case ReasonRadiusExceedsBowl:
		return "Cannot compute interface position (R): it must be less than the bowl radius."
	default:
		return ""
	}
}

// Config is one snapshot of the separator inputs. Radii in m, densities in kg/m3.
type Config struct {
	R1Meters      float64 `json:"r1_m"`
	R2Meters      float64 `json:"r2_m"`
	ChannelMeters float64 `json:"r_channel_m"`
	Rho1KGM3      float64 `json:"rho1_kg_m3"`
	Rho2KGM3      float64 `json:"rho2_kg_m3"`
	BowlRadiusM   float64 `json:"bowl_radius_m"`
}

func DefaultConfig() Config {
	return Config{
		R1Meters:      0.10,
		R2Meters:      0.15,
		ChannelMeters: 0.05,
		Rho1KGM3:      850.0,
		Rho2KGM3:      1000.0,
		BowlRadiusM:   0.22,
	}
}

type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds are the input limits of the tool form. ComputeInterface does not use them.
var Bounds = struct {
	Radius Range
	Rho1   Range
	Rho2   Range
}{
	Radius: Range{Min: 0.001, Max: 0.5},
	Rho1:   Range{Min: 600.0, Max: 1200.0},
	Rho2:   Range{Min: 800.0, Max: 1400.0},
}

// Result is either valid with RadiusM set, or invalid with a Reason.
type Result struct {
	Valid   bool    `json:"valid"`
	RadiusM float64 `json:"radius_m,omitempty"`
	Reason  Reason  `json:"reason,omitempty"`
}

func (r Result) Display() string {
	if !r.Valid {
		return ""
	}
	return fmt.Sprintf("%.4f m", r.RadiusM)
}

func Valid(radius float64) Result {
	return Result{Valid: true, RadiusM: radius}
}

func Invalid(reason Reason) Result {
	return Result{Reason: reason}
}

// ComputeInterface solves the pressure balance of two rotating liquid layers:
// R^2 = (rho1*r1^2 - rho2*r2^2) / (rho1 - rho2).
func ComputeInterface(c Config) Result {
	if c.Rho1KGM3 == c.Rho2KGM3 {
		return Invalid(ReasonEqualDensities)
	}
	rSquared := RSquared(c)
	if !(rSquared > 0) {
		return Invalid(ReasonNegativeOrZeroSquare)
	}
	R := math.Sqrt(rSquared)
	if R >= c.BowlRadiusM {
		return Invalid(ReasonRadiusExceedsBowl)
	}
	return Valid(R)
}

func RSquared(c Config) float64 {
	return (c.Rho1KGM3*c.R1Meters*c.R1Meters - c.Rho2KGM3*c.R2Meters*c.R2Meters) / (c.Rho1KGM3 - c.Rho2KGM3)
}

// Validate checks the invariant of Config (finite, positive) and the form bounds.
func Validate(c Config) error {
	fields := []struct {
		name string
		v    float64
		r    Range
	}{
		{"r1_m", c.R1Meters, Bounds.Radius},
		{"r2_m", c.R2Meters, Bounds.Radius},
		{"r_channel_m", c.ChannelMeters, Bounds.Radius},
		{"rho1_kg_m3", c.Rho1KGM3, Bounds.Rho1},
		{"rho2_kg_m3", c.Rho2KGM3, Bounds.Rho2},
		{"bowl_radius_m", c.BowlRadiusM, Bounds.Radius},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("invalid input: %s must be positive", f.name)
		}
		if !f.r.contains(f.v) {
			return fmt.Errorf("invalid input: %s out of range [%g, %g]", f.name, f.r.Min, f.r.Max)
		}
	}
	return nil
}

type Response struct {
	Config    Config          `json:"config"`
	Result    Result          `json:"result"`
	Display   string          `json:"display,omitempty"`
	Warning   string          `json:"warning,omitempty"`
	Directive RenderDirective `json:"directive"`
	Notes     string          `json:"notes"`
}

func Calculate(in Config) (Response, error) {
	if err := Validate(in); err != nil {
		return Response{}, err
	}
	res := ComputeInterface(in)
	d := BuildDirective(in, res)
	return Response{
		Config:    in,
		Result:    res,
		Display:   res.Display(),
		Warning:   d.Warning,
		Directive: d,
		Notes:     "Interface of two immiscible liquid layers in a rotating bowl.",
	}, nil
}

package recommend

import (
	"fmt"
	"math"

	"Separator/internal/calc/separator"
)

type HeavyWeirInput struct {
	R1Meters      float64 `json:"r1_m"`
	ChannelMeters float64 `json:"r_channel_m"`
	Rho1KGM3      float64 `json:"rho1_kg_m3"`
	Rho2KGM3      float64 `json:"rho2_kg_m3"`
	BowlRadiusM   float64 `json:"bowl_radius_m"`
	TargetRadiusM float64 `json:"target_radius_m"`
}

type HeavyWeirResult struct {
	R2Meters float64          `json:"r2_m"`
	Config   separator.Config `json:"config"`
	Check    separator.Result `json:"check"`
	Notes    string           `json:"notes"`
}

// HeavyWeir backs the heavy phase weir radius out of a wanted interface radius:
// r2^2 = (rho1*r1^2 - (rho1-rho2)*R^2) / rho2.
func HeavyWeir(in HeavyWeirInput) (HeavyWeirResult, error) {
	if in.R1Meters <= 0 || in.Rho1KGM3 <= 0 || in.Rho2KGM3 <= 0 || in.BowlRadiusM <= 0 {
		return HeavyWeirResult{}, fmt.Errorf("invalid input")
	}
	if in.Rho1KGM3 == in.Rho2KGM3 {
		return HeavyWeirResult{}, fmt.Errorf("densities must differ")
	}
	if in.TargetRadiusM <= 0 || in.TargetRadiusM >= in.BowlRadiusM {
		return HeavyWeirResult{}, fmt.Errorf("target radius must be inside the bowl")
	}
	if b := separator.Bounds.Radius; in.TargetRadiusM < b.Min || in.TargetRadiusM > b.Max {
		return HeavyWeirResult{}, fmt.Errorf("invalid input: target_radius_m out of range [%g, %g]", b.Min, b.Max)
	}
	if in.ChannelMeters <= 0 {
		in.ChannelMeters = separator.DefaultConfig().ChannelMeters
	}

	R := in.TargetRadiusM
	r2Squared := (in.Rho1KGM3*in.R1Meters*in.R1Meters - (in.Rho1KGM3-in.Rho2KGM3)*R*R) / in.Rho2KGM3
	if r2Squared <= 0 {
		return HeavyWeirResult{}, fmt.Errorf("no heavy weir radius gives this interface")
	}
	cfg := separator.Config{
		R1Meters:      in.R1Meters,
		R2Meters:      math.Sqrt(r2Squared),
		ChannelMeters: in.ChannelMeters,
		Rho1KGM3:      in.Rho1KGM3,
		Rho2KGM3:      in.Rho2KGM3,
		BowlRadiusM:   in.BowlRadiusM,
	}
	if err := separator.Validate(cfg); err != nil {
		return HeavyWeirResult{}, err
	}
	return HeavyWeirResult{
		R2Meters: cfg.R2Meters,
		Config:   cfg,
		Check:    separator.ComputeInterface(cfg),
		Notes:    "Heavy phase weir radius for the requested interface position.",
	}, nil
}

package water

import (
	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// Network names a water network.
type Network string

const (
	Cold Network = "cold"
	Hot  Network = "hot"
)

// Sizing tags how a diameter was chosen.
type Sizing string

const (
	// SizingOK means the chosen DN keeps velocity within the maximum.
	SizingOK Sizing = "ok"
	// SizingDegraded means no catalog DN satisfied the maximum velocity and
	// the largest one (or the fallback pipe) was used instead.
	SizingDegraded Sizing = "degraded"
)

// Input is everything one water calculation needs.
type Input struct {
	Spec     spec.WaterSpec
	Catalogs catalog.Water
	Params   Params
}

// Params holds the design thresholds of the water engine.
type Params struct {
	MinPressureM     float64 `json:"min_pressure_m" toml:"min_pressure_m"`
	FloorFlowLS      float64 `json:"floor_flow_ls" toml:"floor_flow_ls"`
	BoilerDeltaTC    float64 `json:"boiler_delta_t_c" toml:"boiler_delta_t_c"`
	BoilerEfficiency float64 `json:"boiler_efficiency" toml:"boiler_efficiency"`
	DefaultBarM      float64 `json:"default_bar_m" toml:"default_bar_m"`
}

// DefaultParams returns the residential design thresholds.
func DefaultParams() Params {
	return Params{
		MinPressureM:     4,
		FloorFlowLS:      0.10,
		BoilerDeltaTC:    20,
		BoilerEfficiency: 0.8,
		DefaultBarM:      4,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.MinPressureM <= 0 {
		p.MinPressureM = d.MinPressureM
	}
	if p.FloorFlowLS <= 0 {
		p.FloorFlowLS = d.FloorFlowLS
	}
	if p.BoilerDeltaTC <= 0 {
		p.BoilerDeltaTC = d.BoilerDeltaTC
	}
	if p.BoilerEfficiency <= 0 || p.BoilerEfficiency > 1 {
		p.BoilerEfficiency = d.BoilerEfficiency
	}
	if p.DefaultBarM <= 0 {
		p.DefaultBarM = d.DefaultBarM
	}
	return p
}

// SegmentResult is the sizing of one branch.
type SegmentResult struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Network      Network `json:"network"`
	UC           float64 `json:"uc"`
	FlowLS       float64 `json:"flow_ls"`
	DN           int     `json:"dn_mm"`
	InnerMM      float64 `json:"inner_mm"`
	VelocityMS   float64 `json:"velocity_ms"`
	LeqM         float64 `json:"leq_m"`
	TotalLengthM float64 `json:"total_length_m"`
	LossM        float64 `json:"loss_m"`
	PressureEndM float64 `json:"pressure_end_m"`
	Bars         int     `json:"bars"`
	Sizing       Sizing  `json:"sizing"`
}

// Result is the complete water calculation output.
type Result struct {
	Rows              []report.Row    `json:"rows"`
	Recommendations   []string        `json:"recommendations"`
	Warnings          []string        `json:"warnings"`
	Materials         []bom.Line      `json:"materials"`
	Segments          []SegmentResult `json:"segments"`
	StartPressureM    float64         `json:"start_pressure_m"`
	MinPressureM      float64         `json:"min_pressure_m"`
	RequiredPressureM float64         `json:"required_pressure_m"`
	TotalLossM        float64         `json:"total_loss_m"`
	HotWaterFlowLS    float64         `json:"hot_water_flow_ls"`
	BoilerKcalH       float64         `json:"boiler_kcal_h,omitempty"`
	// Incomplete is set when a catalog lookup missed and a zero was used.
	Incomplete bool `json:"incomplete"`
}

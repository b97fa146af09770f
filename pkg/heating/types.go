package heating

import (
	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// Input is everything one heating calculation needs.
type Input struct {
	Spec     spec.HeatingSpec
	Catalogs catalog.Heating
	Params   Params
}

// Params holds the design constants of the heating engine.
type Params struct {
	ComfortTempC       float64 `json:"comfort_temp_c" toml:"comfort_temp_c"`
	WattToKcalH        float64 `json:"watt_to_kcal_h" toml:"watt_to_kcal_h"`
	SafetyMargin       float64 `json:"safety_margin" toml:"safety_margin"`
	PumpThresholdKcalH float64 `json:"pump_threshold_kcal_h" toml:"pump_threshold_kcal_h"`
	ElementKcalH       float64 `json:"element_kcal_h" toml:"element_kcal_h"`
	LoopSpacingCM      float64 `json:"loop_spacing_cm" toml:"loop_spacing_cm"`
	MaxLoopLengthM     float64 `json:"max_loop_length_m" toml:"max_loop_length_m"`
	RollLengthM        float64 `json:"roll_length_m" toml:"roll_length_m"`
}

// DefaultParams returns the residential design constants.
func DefaultParams() Params {
	return Params{
		ComfortTempC:       20,
		WattToKcalH:        0.860421,
		SafetyMargin:       1.2,
		PumpThresholdKcalH: 15000,
		ElementKcalH:       150,
		LoopSpacingCM:      20,
		MaxLoopLengthM:     100,
		RollLengthM:        200,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.ComfortTempC == 0 {
		p.ComfortTempC = d.ComfortTempC
	}
	if p.WattToKcalH <= 0 {
		p.WattToKcalH = d.WattToKcalH
	}
	if p.SafetyMargin <= 0 {
		p.SafetyMargin = d.SafetyMargin
	}
	if p.PumpThresholdKcalH <= 0 {
		p.PumpThresholdKcalH = d.PumpThresholdKcalH
	}
	if p.ElementKcalH <= 0 {
		p.ElementKcalH = d.ElementKcalH
	}
	if p.LoopSpacingCM <= 0 {
		p.LoopSpacingCM = d.LoopSpacingCM
	}
	if p.MaxLoopLengthM <= 0 {
		p.MaxLoopLengthM = d.MaxLoopLengthM
	}
	if p.RollLengthM <= 0 {
		p.RollLengthM = d.RollLengthM
	}
	return p
}

// RoomLoad is the heat balance of one room.
type RoomLoad struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Floor      int     `json:"floor"`
	AreaM2     float64 `json:"area_m2"`
	WallW      float64 `json:"wall_w"`
	GlazingW   float64 `json:"glazing_w"`
	RoofW      float64 `json:"roof_w"`
	FloorW     float64 `json:"floor_w"`
	TotalW     float64 `json:"total_w"`
	KcalH      float64 `json:"kcal_h"`
	LoopM      float64 `json:"loop_m,omitempty"`
	Circuits   int     `json:"circuits,omitempty"`
	Elements   int     `json:"elements,omitempty"`
	Incomplete bool    `json:"incomplete,omitempty"`
}

// Result is the complete heating calculation output.
type Result struct {
	Rows            []report.Row `json:"rows"`
	Recommendations []string     `json:"recommendations"`
	Warnings        []string     `json:"warnings"`
	Materials       []bom.Line   `json:"materials"`
	Rooms           []RoomLoad   `json:"rooms"`
	DesignTempC     float64      `json:"design_temp_c"`
	DeltaTC         float64      `json:"delta_t_c"`
	TotalW          float64      `json:"total_w"`
	TotalKcalH      float64      `json:"total_kcal_h"`
	BoilerKcalH     float64      `json:"boiler_kcal_h"`
	PumpRequired    bool         `json:"pump_required"`
	Incomplete      bool         `json:"incomplete"`
}

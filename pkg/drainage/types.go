package drainage

import (
	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// Input is everything one drainage calculation needs.
type Input struct {
	Spec     spec.DrainageSpec
	Catalogs catalog.Drainage
	Params   Params
}

// Params holds the design constants of the drainage engine.
type Params struct {
	RiserDN             int     `json:"riser_dn_mm" toml:"riser_dn_mm"`
	CollectorDN         int     `json:"collector_dn_mm" toml:"collector_dn_mm"`
	DefaultBarM         float64 `json:"default_bar_m" toml:"default_bar_m"`
	FallbackSlopeCMPerM float64 `json:"fallback_slope_cm_m" toml:"fallback_slope_cm_m"`
	StartDepthCM        float64 `json:"start_depth_cm" toml:"start_depth_cm"`
	DailyAllowanceL     float64 `json:"daily_allowance_l" toml:"daily_allowance_l"`
	RetentionDays       float64 `json:"retention_days" toml:"retention_days"`
	JointsPerKit        int     `json:"joints_per_kit" toml:"joints_per_kit"`
}

// DefaultParams returns the residential design constants.
func DefaultParams() Params {
	return Params{
		RiserDN:             110,
		CollectorDN:         110,
		DefaultBarM:         3,
		FallbackSlopeCMPerM: 1.67,
		StartDepthCM:        0,
		DailyAllowanceL:     150,
		RetentionDays:       30,
		JointsPerKit:        20,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.RiserDN <= 0 {
		p.RiserDN = d.RiserDN
	}
	if p.CollectorDN <= 0 {
		p.CollectorDN = d.CollectorDN
	}
	if p.DefaultBarM <= 0 {
		p.DefaultBarM = d.DefaultBarM
	}
	if p.FallbackSlopeCMPerM <= 0 {
		p.FallbackSlopeCMPerM = d.FallbackSlopeCMPerM
	}
	if p.StartDepthCM < 0 {
		p.StartDepthCM = 0
	}
	if p.DailyAllowanceL <= 0 {
		p.DailyAllowanceL = d.DailyAllowanceL
	}
	if p.RetentionDays <= 0 {
		p.RetentionDays = d.RetentionDays
	}
	if p.JointsPerKit <= 0 {
		p.JointsPerKit = d.JointsPerKit
	}
	return p
}

// RunKind identifies the kind of drainage run.
type RunKind string

const (
	KindRiser     RunKind = "riser"
	KindCollector RunKind = "collector"
	KindVent      RunKind = "vent"
)

// RunResult is the outcome for one riser, collector or vent run.
type RunResult struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Kind             RunKind `json:"kind"`
	DN               int     `json:"dn_mm"`
	LengthM          float64 `json:"length_m"`
	SlopeCMPerM      float64 `json:"slope_cm_m,omitempty"`
	DropCM           float64 `json:"drop_cm,omitempty"`
	ExitDepthCM      float64 `json:"exit_depth_cm,omitempty"`
	Bars             int     `json:"bars"`
	Chambers         int     `json:"chambers,omitempty"`
	LiftPumpRequired bool    `json:"lift_pump_required,omitempty"`
	OK               bool    `json:"ok"`
	Reason           string  `json:"reason,omitempty"`
}

// AccessPoints lists suggested inspection access positions along a run,
// measured from its upstream end.
type AccessPoints struct {
	RunID      string    `json:"run_id"`
	PositionsM []float64 `json:"positions_m"`
}

// SepticResult sizes static disposal.
type SepticResult struct {
	Occupants int     `json:"occupants"`
	VolumeL   float64 `json:"volume_l"`
	PitM3     float64 `json:"pit_m3"`
}

// Result is the complete drainage calculation output.
type Result struct {
	Rows               []report.Row   `json:"rows"`
	Recommendations    []string       `json:"recommendations"`
	Warnings           []string       `json:"warnings"`
	Materials          []bom.Line     `json:"materials"`
	Runs               []RunResult    `json:"runs"`
	Access             []AccessPoints `json:"access"`
	InspectionChambers int            `json:"inspection_chambers"`
	LiftPumpRequired   bool           `json:"lift_pump_required"`
	Septic             *SepticResult  `json:"septic,omitempty"`
	Incomplete         bool           `json:"incomplete"`
}

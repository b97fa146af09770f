package validation

import (
	"testing"

	"github.com/home265/bob-obras-sanitarias/pkg/drainage"
	"github.com/home265/bob-obras-sanitarias/pkg/heating"
	"github.com/home265/bob-obras-sanitarias/pkg/water"
)

func TestAnalyzeWater(t *testing.T) {
	res := &water.Result{
		Segments: []water.SegmentResult{
			{ID: "tf-1", Name: "tf-1", Network: water.Cold, Sizing: water.SizingOK},
			{ID: "tc-1", Name: "tc-1", Network: water.Hot, Sizing: water.SizingDegraded, VelocityMS: 2.6, DN: 50},
		},
		StartPressureM:    6,
		MinPressureM:      3.2,
		RequiredPressureM: 4,
		TotalLossM:        2.8,
	}
	r := AnalyzeWater(res)

	assertHasError(t, r, "water.network.hot[0]")
	assertHasError(t, r, "water.building.initial_pressure_m")
	if len(r.Errors) != 2 {
		t.Errorf("errors = %d, want 2", len(r.Errors))
	}
}

func TestAnalyzeWaterHealthy(t *testing.T) {
	res := &water.Result{
		Segments:          []water.SegmentResult{{ID: "tf-1", Network: water.Cold, Sizing: water.SizingOK}},
		MinPressureM:      9,
		RequiredPressureM: 4,
	}
	if r := AnalyzeWater(res); r.Len() != 0 {
		t.Errorf("expected no findings, got %v %v", r.Errors, r.Warnings)
	}
}

func TestAnalyzeDrainage(t *testing.T) {
	res := &drainage.Result{
		Runs: []drainage.RunResult{
			{ID: "m-1", Kind: drainage.KindRiser, OK: true},
			{ID: "c-1", Name: "c-1", Kind: drainage.KindCollector, OK: false, LiftPumpRequired: true,
				ExitDepthCM: 80, Reason: "exit depth 80.0 cm is below the sewer connection at 70.0 cm"},
			{ID: "c-2", Name: "c-2", Kind: drainage.KindCollector, OK: false, Reason: "slope 0.50 cm/m below minimum 1.00 cm/m"},
		},
		InspectionChambers: 1,
	}
	r := AnalyzeDrainage(res)

	assertHasError(t, r, "drainage.collectors[0]")
	assertHasError(t, r, "drainage.collectors[1]")
	if r.Errors[0].ConflictWith != "drainage.disposal.connection_depth_cm" {
		t.Errorf("lift pump error conflict = %q", r.Errors[0].ConflictWith)
	}
	if len(r.Info) != 1 {
		t.Errorf("info = %d, want 1 chamber note", len(r.Info))
	}
}

func TestAnalyzeHeating(t *testing.T) {
	res := &heating.Result{
		Rooms: []heating.RoomLoad{
			{ID: "estar", Name: "estar", TotalW: 937.5, Incomplete: true},
		},
		TotalW:      937.5,
		TotalKcalH:  807,
		BoilerKcalH: 1000,
		Incomplete:  true,
		Warnings:    []string{"room \"estar\": no transmittance for vidrios \"x\"; loss counted as 0"},
	}
	r := AnalyzeHeating(res)

	assertHasWarning(t, r, "heating.rooms[0]")
	assertHasWarning(t, r, "heating")
	if len(r.Incomplete) != 1 || r.Incomplete[0] != SectionHeating {
		t.Errorf("incomplete = %v, want [heating]", r.Incomplete)
	}
	if len(r.Info) != 1 {
		t.Errorf("info = %d, want boiler summary", len(r.Info))
	}
	if !r.Valid {
		t.Error("heating analysis should only warn")
	}
}

package validation

import (
	"testing"

	"github.com/home265/bob-obras-sanitarias/pkg/geo"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

func validSpec() *spec.InstallationSpec {
	return &spec.InstallationSpec{
		SpecVersion: "0.1.0",
		Project:     spec.ProjectInfo{Name: "Casa tipo"},
		Water: &spec.WaterSpec{
			Building: spec.WaterBuilding{
				Floors: 2, FloorHeightM: 2.8, TankHeightM: 8, Supply: spec.SupplyTank,
				HotWater: spec.HotWaterSource{Type: spec.HotWaterCombiBoiler},
			},
			Rooms: []spec.Room{
				{ID: "bano", Floor: 1, Fixtures: spec.Counts{"ducha": 1}},
			},
			Network: spec.WaterNetwork{
				Cold: []spec.Segment{{ID: "tf-1", LengthM: 12, Feeds: spec.FeedsRoom, TargetID: "bano"}},
				Hot:  []spec.Segment{{ID: "tc-1", LengthM: 6, Feeds: spec.FeedsRoom, TargetID: "bano"}},
			},
		},
		Drainage: &spec.DrainageSpec{
			Building:   spec.DrainageBuilding{Floors: 2, FloorHeightM: 2.8},
			Disposal:   spec.Disposal{Type: spec.DisposalSewer, ConnectionDepthCM: 90},
			System:     spec.PVCGlued,
			Risers:     []spec.Riser{{ID: "m-1", DischargeFloor: 1}},
			Collectors: []spec.Collector{{ID: "c-1", LengthM: 40, DN: 110}},
			Vents:      []spec.VentRun{{ID: "v-1", DN: 63, LengthM: 7, Termination: spec.VentCap}},
		},
		Heating: &spec.HeatingSpec{
			System: spec.HeatingSystem{Type: spec.RadiantFloor, Floors: 2, ClimateZoneID: "IV"},
			Rooms: []spec.HeatedRoom{
				{ID: "estar", LengthM: 6, WidthM: 4.5, WallType: "ladrillo_hueco_18", WallAreaM2: 25},
			},
		},
	}
}

func TestValidateSchemaValid(t *testing.T) {
	r := ValidateSchema(validSpec())
	if !r.Valid {
		t.Errorf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
}

func TestValidateSchemaNil(t *testing.T) {
	if r := ValidateSchema(nil); r.Valid {
		t.Error("expected invalid for nil installation")
	}
}

func TestValidateSchemaNoSections(t *testing.T) {
	s := validSpec()
	s.Water, s.Drainage, s.Heating = nil, nil, nil
	r := ValidateSchema(s)
	if r.Valid {
		t.Error("expected invalid without sections")
	}
}

func TestValidateSchemaTags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *spec.InstallationSpec)
		path   string
	}{
		{"missing version", func(s *spec.InstallationSpec) { s.SpecVersion = "" }, "spec_version"},
		{"zero floors", func(s *spec.InstallationSpec) { s.Water.Building.Floors = 0 }, "water.building.floors"},
		{"bad supply", func(s *spec.InstallationSpec) { s.Water.Building.Supply = "pozo" }, "water.building.supply"},
		{"negative length", func(s *spec.InstallationSpec) { s.Water.Network.Cold[0].LengthM = -1 }, "water.network.cold[0].length_m"},
		{"missing room id", func(s *spec.InstallationSpec) { s.Water.Rooms[0].ID = "" }, "water.rooms[0].id"},
		{"vent without DN", func(s *spec.InstallationSpec) { s.Drainage.Vents[0].DN = 0 }, "drainage.vents[0].dn_mm"},
		{"bad heating type", func(s *spec.InstallationSpec) { s.Heating.System.Type = "estufa" }, "heating.system.type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(s)
			assertHasError(t, ValidateSchema(s), tt.path)
		})
	}
}

func TestValidateSchemaCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *spec.InstallationSpec)
		path   string
	}{
		{"room above top floor", func(s *spec.InstallationSpec) { s.Water.Rooms[0].Floor = 2 }, "water.rooms[0].floor"},
		{"no start pressure", func(s *spec.InstallationSpec) { s.Water.Building.TankHeightM = 0 }, "water.building.initial_pressure_m"},
		{"duplicate branch", func(s *spec.InstallationSpec) { s.Water.Network.Hot[0].ID = "tf-1" }, "water.network.hot[0].id"},
		{"self feed", func(s *spec.InstallationSpec) {
			s.Water.Network.Cold[0].Feeds = spec.FeedsSegment
			s.Water.Network.Cold[0].TargetID = "tf-1"
		}, "water.network.cold[0].target_id"},
		{"riser above top floor", func(s *spec.InstallationSpec) { s.Drainage.Risers[0].DischargeFloor = 3 }, "drainage.risers[0].discharge_floor"},
		{"duplicate run", func(s *spec.InstallationSpec) { s.Drainage.Vents[0].ID = "c-1" }, "drainage.vents[0].id"},
		{"static without occupants", func(s *spec.InstallationSpec) { s.Drainage.Disposal.Type = spec.DisposalStatic }, "drainage.disposal.occupants"},
		{"missing zone", func(s *spec.InstallationSpec) { s.Heating.System.ClimateZoneID = "" }, "heating.system.climate_zone"},
		{"area without type", func(s *spec.InstallationSpec) { s.Heating.Rooms[0].GlazingAreaM2 = 4 }, "heating.rooms[0].glazing_type"},
		{"short outline", func(s *spec.InstallationSpec) {
			s.Heating.Rooms[0].Outline = []geo.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
		}, "heating.rooms[0].outline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			tt.mutate(s)
			assertHasError(t, ValidateSchema(s), tt.path)
		})
	}
}

func TestValidateSchemaWarnings(t *testing.T) {
	s := validSpec()
	s.Project.Name = ""
	s.Drainage.Disposal.ConnectionDepthCM = 0
	s.Water.Network.Cold[0].TargetID = ""
	r := ValidateSchema(s)

	if !r.Valid {
		t.Errorf("warnings alone should keep the report valid: %v", r.Errors)
	}
	for _, path := range []string{"project.name", "drainage.disposal.connection_depth_cm", "water.network.cold[0].target_id"} {
		assertHasWarning(t, r, path)
	}
}

func assertHasError(t *testing.T, r *Report, specPath string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.SpecPath == specPath {
			return
		}
	}
	t.Errorf("expected error with spec_path %q, got errors: %v", specPath, r.Errors)
}

func assertHasWarning(t *testing.T, r *Report, specPath string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.SpecPath == specPath {
			return
		}
	}
	t.Errorf("expected warning with spec_path %q, got warnings: %v", specPath, r.Warnings)
}

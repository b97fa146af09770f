package spec

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProject(t *testing.T) {
	s, err := LoadProject("../../examples/casa-tipo")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if s.SpecVersion != "0.1.0" {
		t.Errorf("spec_version = %q, want %q", s.SpecVersion, "0.1.0")
	}
	if s.Project.Name == "" {
		t.Error("expected project name")
	}

	// Water
	if s.Water == nil {
		t.Fatal("missing water section")
	}
	if s.Water.Building.Floors != 2 {
		t.Errorf("water floors = %d, want 2", s.Water.Building.Floors)
	}
	if s.Water.Building.HotWater.Type != HotWaterCombiBoiler {
		t.Errorf("hot water type = %q, want %q", s.Water.Building.HotWater.Type, HotWaterCombiBoiler)
	}
	if len(s.Water.Network.Cold) != 2 || len(s.Water.Network.Hot) != 1 {
		t.Errorf("network = %d cold / %d hot, want 2 / 1", len(s.Water.Network.Cold), len(s.Water.Network.Hot))
	}
	var bano *Room
	for i := range s.Water.Rooms {
		if s.Water.Rooms[i].ID == "bano-pa" {
			bano = &s.Water.Rooms[i]
		}
	}
	if bano == nil {
		t.Fatal("missing room bano-pa")
	}
	if bano.Fixtures.Get("ducha") != 1 || bano.Fixtures.Total() != 3 {
		t.Errorf("bano-pa fixtures = %v, want ducha:1 and 3 total", bano.Fixtures)
	}

	// Drainage
	if s.Drainage == nil {
		t.Fatal("missing drainage section")
	}
	if s.Drainage.Disposal.Type != DisposalSewer {
		t.Errorf("disposal = %q, want %q", s.Drainage.Disposal.Type, DisposalSewer)
	}
	if len(s.Drainage.Collectors) != 1 || s.Drainage.Collectors[0].LengthM != 40 {
		t.Errorf("collectors = %+v, want one 40 m run", s.Drainage.Collectors)
	}
	if s.Drainage.Vents[0].Termination != VentCap {
		t.Errorf("vent termination = %q, want %q", s.Drainage.Vents[0].Termination, VentCap)
	}

	// Heating
	if s.Heating == nil {
		t.Fatal("missing heating section")
	}
	if s.Heating.System.Type != RadiantFloor {
		t.Errorf("heating type = %q, want %q", s.Heating.System.Type, RadiantFloor)
	}
	if len(s.Heating.Rooms) != 2 {
		t.Fatalf("heated rooms = %d, want 2", len(s.Heating.Rooms))
	}
	if a := s.Heating.Rooms[1].PlanAreaM2(); math.Abs(a-14) > 1e-9 {
		t.Errorf("dormitorio outline area = %v, want 14", a)
	}
	if a := s.Heating.Rooms[0].PlanAreaM2(); math.Abs(a-27) > 1e-9 {
		t.Errorf("estar area = %v, want 27", a)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestLoadRejectsNegativeCounts(t *testing.T) {
	dir := t.TempDir()
	doc := `spec_version: "0.1.0"
water:
  building: {floors: 1}
  rooms:
    - id: r1
      fixtures: {ducha: -1}
`
	if err := os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(dir); err == nil {
		t.Error("expected error for negative fixture count")
	}
}

func TestStartPressure(t *testing.T) {
	b := WaterBuilding{TankHeightM: 8}
	if b.StartPressureM() != 8 {
		t.Errorf("start pressure = %v, want tank height 8", b.StartPressureM())
	}
	b.InitialPressureM = 15
	if b.StartPressureM() != 15 {
		t.Errorf("start pressure = %v, want 15", b.StartPressureM())
	}
}

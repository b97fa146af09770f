package validation

import (
	"fmt"

	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// ValidateReferences checks every catalog key the installation names.
// The engines treat a missing key as zero, so each miss is a warning
// naming the key and the table it was looked up in.
func ValidateReferences(s *spec.InstallationSpec, cat catalog.Set) *Report {
	r := NewReport()
	if s == nil {
		return r
	}
	if s.Water != nil {
		referencesWater(s.Water, cat.Water, r)
	}
	if s.Drainage != nil {
		referencesDrainage(s.Drainage, cat.Drainage, r)
	}
	if s.Heating != nil {
		referencesHeating(s.Heating, cat.Heating, r)
	}
	return r
}

func referencesWater(w *spec.WaterSpec, cat catalog.Water, r *Report) {
	for i, room := range w.Rooms {
		for _, kind := range room.Fixtures.Keys() {
			if _, ok := cat.FixtureWeights[kind]; ok {
				continue
			}
			r.AddWarning(Result{
				Level:       LevelReference,
				Message:     fmt.Sprintf("fixture %q has no consumption units; it will weigh 0", kind),
				SpecPath:    fmt.Sprintf("water.rooms[%d].fixtures.%s", i, kind),
				ActualValue: kind,
				Expected:    "a key of " + catalog.FileFixtureWeights,
			})
		}
	}

	known := map[string]bool{}
	for _, e := range cat.EquivalentLengths {
		known[e.Type] = true
	}
	networks := []struct {
		name string
		segs []spec.Segment
	}{
		{"cold", w.Network.Cold},
		{"hot", w.Network.Hot},
	}
	for _, net := range networks {
		for i, seg := range net.segs {
			for _, kind := range seg.Fittings.Keys() {
				if known[kind] {
					continue
				}
				r.AddWarning(Result{
					Level:       LevelReference,
					Message:     fmt.Sprintf("fitting %q has no equivalent length at any diameter", kind),
					SpecPath:    fmt.Sprintf("water.network.%s[%d].fittings.%s", net.name, i, kind),
					ActualValue: kind,
					Expected:    "a tipo of " + catalog.FileEquivalentLength,
				})
			}
		}
	}
	if len(cat.PPR.Pipes) == 0 {
		r.AddWarning(Result{
			Level:    LevelReference,
			Message:  "PPR pipe catalog is empty; branches will use the fallback pipe",
			Expected: catalog.FilePPR,
		})
	}
}

func referencesDrainage(d *spec.DrainageSpec, cat catalog.Drainage, r *Report) {
	for i, c := range d.Collectors {
		dn := c.DN
		if dn <= 0 {
			dn = 110
		}
		if _, ok := cat.Slope(dn); ok {
			continue
		}
		r.AddWarning(Result{
			Level:       LevelReference,
			Message:     fmt.Sprintf("collector %q: DN %d has no slope range", c.ID, dn),
			SpecPath:    fmt.Sprintf("drainage.collectors[%d].dn_mm", i),
			ActualValue: dn,
			Expected:    "a DN of " + catalog.FileSlopes,
		})
	}
}

func referencesHeating(h *spec.HeatingSpec, cat catalog.Heating, r *Report) {
	if h.System.ClimateZoneID != "" {
		if _, ok := cat.Zone(h.System.ClimateZoneID); !ok {
			r.AddWarning(Result{
				Level:       LevelReference,
				Message:     fmt.Sprintf("climate zone %q not found; design temperature will be 0 °C", h.System.ClimateZoneID),
				SpecPath:    "heating.system.climate_zone",
				ActualValue: h.System.ClimateZoneID,
				Expected:    "an id of " + catalog.FileClimateZones,
			})
		}
	}
	for i, room := range h.Rooms {
		keys := []struct {
			field   string
			surface catalog.Surface
			key     string
		}{
			{"wall_type", catalog.SurfaceWall, room.WallType},
			{"glazing_type", catalog.SurfaceGlazing, room.GlazingType},
			{"roof_type", catalog.SurfaceRoof, room.RoofType},
			{"floor_type", catalog.SurfaceFloor, room.FloorType},
		}
		for _, k := range keys {
			if k.key == "" {
				continue
			}
			if _, ok := cat.Transmittances.K(k.surface, k.key); ok {
				continue
			}
			r.AddWarning(Result{
				Level:       LevelReference,
				Message:     fmt.Sprintf("room %q: no transmittance for %s %q; loss will be 0", room.ID, k.surface, k.key),
				SpecPath:    fmt.Sprintf("heating.rooms[%d].%s", i, k.field),
				ActualValue: k.key,
				Expected:    fmt.Sprintf("a key of %s.%s", catalog.FileTransmittances, k.surface),
			})
		}
	}
}

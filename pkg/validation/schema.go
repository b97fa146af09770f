package validation

import (
	"fmt"

	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// ValidateSchema performs Level 1 (schema) validation on a parsed
// InstallationSpec: struct tags first, then the cross-field rules the tags
// cannot express.
func ValidateSchema(s *spec.InstallationSpec) *Report {
	r := NewReport()
	if s == nil {
		r.AddError(Result{Level: LevelSchema, Message: "installation is empty"})
		return r
	}

	validateTags(s, r)
	validateSections(s, r)
	if s.Water != nil {
		validateWater(s.Water, r)
	}
	if s.Drainage != nil {
		validateDrainage(s.Drainage, r)
	}
	if s.Heating != nil {
		validateHeating(s.Heating, r)
	}

	return r
}

func validateSections(s *spec.InstallationSpec, r *Report) {
	if s.Water == nil && s.Drainage == nil && s.Heating == nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "installation declares no water, drainage or heating section",
			Suggestions: []string{"Add at least one of water, drainage, heating"},
		})
	}
	if s.Project.Name == "" {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "project.name is empty",
			SpecPath: "project.name",
		})
	}
}

func validateRooms(prefix string, rooms []spec.Room, floors int, r *Report) {
	seen := map[string]bool{}
	for i, room := range rooms {
		path := fmt.Sprintf("%s.rooms[%d]", prefix, i)
		if room.ID != "" && seen[room.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate room id %q", room.ID),
				SpecPath:    path + ".id",
				ActualValue: room.ID,
			})
		}
		seen[room.ID] = true
		if floors > 0 && room.Floor >= floors {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("room %q is on floor %d but the building has %d floors", room.ID, room.Floor, floors),
				SpecPath:     path + ".floor",
				ActualValue:  room.Floor,
				Expected:     fmt.Sprintf("< %d", floors),
				ConflictWith: prefix + ".building.floors",
			})
		}
	}
}

func validateWater(w *spec.WaterSpec, r *Report) {
	b := w.Building
	validateRooms("water", w.Rooms, b.Floors, r)

	segments := len(w.Network.Cold) + len(w.Network.Hot)
	if segments > 0 && b.StartPressureM() <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "no initial pressure or tank height: every branch would start at 0 m",
			SpecPath:    "water.building.initial_pressure_m",
			ActualValue: b.InitialPressureM,
			Expected:    "> 0 (or tank_height_m > 0)",
		})
	}
	if len(w.Network.Hot) > 0 && b.HotWater.Type == "" {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "hot water branches declared without a hot water appliance",
			SpecPath: "water.building.hot_water.type",
			Suggestions: []string{
				fmt.Sprintf("Set hot_water.type to %s, %s or %s",
					spec.HotWaterStorage, spec.HotWaterInstant, spec.HotWaterCombiBoiler),
			},
		})
	}

	ids := map[string]string{}
	check := func(net string, segs []spec.Segment) {
		for i, seg := range segs {
			path := fmt.Sprintf("water.network.%s[%d]", net, i)
			if prev, ok := ids[seg.ID]; ok && seg.ID != "" {
				r.AddError(Result{
					Level:        LevelSchema,
					Message:      fmt.Sprintf("duplicate branch id %q", seg.ID),
					SpecPath:     path + ".id",
					ActualValue:  seg.ID,
					ConflictWith: prev,
				})
			} else {
				ids[seg.ID] = path
			}
			if seg.TargetID == "" {
				r.AddWarning(Result{
					Level:    LevelSchema,
					Message:  fmt.Sprintf("branch %q has no destination; its demand will be 0", seg.Label()),
					SpecPath: path + ".target_id",
				})
			}
			if seg.Feeds == spec.FeedsSegment && seg.TargetID == seg.ID {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("branch %q feeds itself", seg.Label()),
					SpecPath:    path + ".target_id",
					ActualValue: seg.TargetID,
				})
			}
		}
	}
	check("cold", w.Network.Cold)
	check("hot", w.Network.Hot)
}

func validateDrainage(d *spec.DrainageSpec, r *Report) {
	b := d.Building
	validateRooms("drainage", d.Rooms, b.Floors, r)

	ids := map[string]string{}
	claim := func(id, path string) {
		if id == "" {
			return
		}
		if prev, ok := ids[id]; ok {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("duplicate run id %q", id),
				SpecPath:     path,
				ActualValue:  id,
				ConflictWith: prev,
			})
			return
		}
		ids[id] = path
	}

	for i, riser := range d.Risers {
		path := fmt.Sprintf("drainage.risers[%d]", i)
		claim(riser.ID, path+".id")
		if b.Floors > 0 && riser.DischargeFloor >= b.Floors {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("riser %q discharges from floor %d but the building has %d floors", riser.ID, riser.DischargeFloor, b.Floors),
				SpecPath:     path + ".discharge_floor",
				ActualValue:  riser.DischargeFloor,
				Expected:     fmt.Sprintf("< %d", b.Floors),
				ConflictWith: "drainage.building.floors",
			})
		}
	}
	if len(d.Risers) > 0 && b.FloorHeightM <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "risers declared without a floor height",
			SpecPath:    "drainage.building.floor_height_m",
			ActualValue: b.FloorHeightM,
			Expected:    "> 0",
		})
	}

	for i, c := range d.Collectors {
		path := fmt.Sprintf("drainage.collectors[%d]", i)
		claim(c.ID, path+".id")
		if c.LengthM <= 0 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("collector %q has no length", c.ID),
				SpecPath:    path + ".length_m",
				ActualValue: c.LengthM,
				Expected:    "> 0",
			})
		}
	}
	for i, v := range d.Vents {
		claim(v.ID, fmt.Sprintf("drainage.vents[%d].id", i))
	}

	switch d.Disposal.Type {
	case spec.DisposalStatic:
		if d.Disposal.Occupants <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "static disposal requires the number of occupants",
				SpecPath:    "drainage.disposal.occupants",
				ActualValue: d.Disposal.Occupants,
				Expected:    "> 0",
			})
		}
	default:
		if len(d.Collectors) > 0 && d.Disposal.ConnectionDepthCM <= 0 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     "sewer connection depth not declared; gravity discharge cannot be checked",
				SpecPath:    "drainage.disposal.connection_depth_cm",
				Suggestions: []string{"Ask the water utility for the connection depth at the property line"},
			})
		}
	}
}

func validateHeating(h *spec.HeatingSpec, r *Report) {
	if h.System.ClimateZoneID == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "heating.system.climate_zone is required",
			SpecPath: "heating.system.climate_zone",
			Expected: "I to VI",
		})
	}

	seen := map[string]bool{}
	for i, room := range h.Rooms {
		path := fmt.Sprintf("heating.rooms[%d]", i)
		if room.ID != "" && seen[room.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate room id %q", room.ID),
				SpecPath:    path + ".id",
				ActualValue: room.ID,
			})
		}
		seen[room.ID] = true

		if h.System.Floors > 0 && room.Floor >= h.System.Floors {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("room %q is on floor %d but the building has %d floors", room.ID, room.Floor, h.System.Floors),
				SpecPath:     path + ".floor",
				ActualValue:  room.Floor,
				ConflictWith: "heating.system.floors",
			})
		}
		if n := len(room.Outline); n > 0 && n < 3 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("room %q outline has %d points", room.ID, n),
				SpecPath:    path + ".outline",
				ActualValue: n,
				Expected:    ">= 3",
			})
		}
		surfaces := []struct {
			field string
			key   string
			area  float64
		}{
			{"wall", room.WallType, room.WallAreaM2},
			{"glazing", room.GlazingType, room.GlazingAreaM2},
			{"roof", room.RoofType, room.RoofAreaM2},
			{"floor", room.FloorType, room.FloorAreaM2},
		}
		for _, sf := range surfaces {
			if sf.area > 0 && sf.key == "" {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("room %q declares %s area without a %s type", room.ID, sf.field, sf.field),
					SpecPath:    fmt.Sprintf("%s.%s_type", path, sf.field),
					ActualValue: sf.area,
				})
			}
		}
		if h.System.Type == spec.RadiantFloor && room.PlanAreaM2() <= 0 {
			r.AddWarning(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("room %q has no floor plan area; no radiant loop will be laid", room.ID),
				SpecPath: path,
			})
		}
	}
}

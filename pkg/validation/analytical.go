package validation

import (
	"fmt"

	"github.com/home265/bob-obras-sanitarias/pkg/drainage"
	"github.com/home265/bob-obras-sanitarias/pkg/heating"
	"github.com/home265/bob-obras-sanitarias/pkg/water"
)

// AnalyzeWater runs Level 2 checks on a water result: degraded diameters
// and an insufficient pressure budget are errors.
func AnalyzeWater(res *water.Result) *Report {
	r := NewReport()
	index := map[water.Network]int{}
	for _, s := range res.Segments {
		path := fmt.Sprintf("water.network.%s[%d]", s.Network, index[s.Network])
		index[s.Network]++
		if s.Sizing == water.SizingDegraded {
			r.AddError(Result{
				Level:       LevelAnalytical,
				Message:     fmt.Sprintf("branch %q: velocity %.2f m/s at DN %d exceeds the limit with the largest pipe available", s.Name, s.VelocityMS, s.DN),
				SpecPath:    path,
				ActualValue: s.VelocityMS,
				Suggestions: []string{
					"Split the branch so each part carries less demand",
					"Add a larger diameter to the pipe catalog",
				},
			})
		}
	}
	if len(res.Segments) > 0 && res.MinPressureM < res.RequiredPressureM {
		r.AddError(Result{
			Level:        LevelAnalytical,
			Message:      fmt.Sprintf("minimum pressure %.2f m is below the required %.1f m", res.MinPressureM, res.RequiredPressureM),
			SpecPath:     "water.building.initial_pressure_m",
			ActualValue:  res.MinPressureM,
			Expected:     fmt.Sprintf(">= %.1f m", res.RequiredPressureM),
			ConflictWith: fmt.Sprintf("total loss %.2f m from a start of %.2f m", res.TotalLossM, res.StartPressureM),
			Suggestions:  res.Recommendations,
		})
	}
	incomplete(r, SectionWater, res.Incomplete, res.Warnings)
	return r
}

// AnalyzeDrainage reports every run that failed its checks.
func AnalyzeDrainage(res *drainage.Result) *Report {
	r := NewReport()
	index := map[drainage.RunKind]int{}
	for _, run := range res.Runs {
		path := fmt.Sprintf("drainage.%ss[%d]", run.Kind, index[run.Kind])
		index[run.Kind]++
		if run.OK {
			continue
		}
		result := Result{
			Level:       LevelAnalytical,
			Message:     fmt.Sprintf("%s %q: %s", run.Kind, run.Name, run.Reason),
			SpecPath:    path,
			ActualValue: run.SlopeCMPerM,
		}
		if run.LiftPumpRequired {
			result.ActualValue = run.ExitDepthCM
			result.ConflictWith = "drainage.disposal.connection_depth_cm"
			result.Suggestions = []string{
				"Install a sump with a lift pump",
				"Reduce the slope towards its minimum or shorten the collector",
			}
		}
		r.AddError(result)
	}
	if res.InspectionChambers > 0 {
		r.AddInfo(Result{
			Level:       LevelAnalytical,
			Message:     fmt.Sprintf("%d inspection chamber(s) required", res.InspectionChambers),
			SpecPath:    "drainage.collectors",
			ActualValue: res.InspectionChambers,
		})
	}
	incomplete(r, SectionDrainage, res.Incomplete, res.Warnings)
	return r
}

// AnalyzeHeating flags degraded lookups and summarises the boiler.
func AnalyzeHeating(res *heating.Result) *Report {
	r := NewReport()
	for i, room := range res.Rooms {
		if room.Incomplete {
			r.AddWarning(Result{
				Level:       LevelAnalytical,
				Message:     fmt.Sprintf("room %q: heat loss %.0f W is underestimated, a transmittance was missing", room.Name, room.TotalW),
				SpecPath:    fmt.Sprintf("heating.rooms[%d]", i),
				ActualValue: room.TotalW,
			})
		}
	}
	if len(res.Rooms) > 0 && res.TotalW == 0 {
		r.AddWarning(Result{
			Level:       LevelAnalytical,
			Message:     "total heat loss is 0 W; no envelope surface was counted",
			SpecPath:    "heating.rooms",
			Suggestions: []string{"Declare wall, glazing or roof areas with their construction types"},
		})
	}
	if res.BoilerKcalH > 0 {
		r.AddInfo(Result{
			Level:       LevelAnalytical,
			Message:     fmt.Sprintf("boiler %.0f kcal/h for a load of %.0f kcal/h", res.BoilerKcalH, res.TotalKcalH),
			SpecPath:    "heating.system",
			ActualValue: res.BoilerKcalH,
		})
	}
	incomplete(r, SectionHeating, res.Incomplete, res.Warnings)
	return r
}

func incomplete(r *Report, section Section, flagged bool, warnings []string) {
	if !flagged {
		return
	}
	r.AddWarning(Result{
		Level:       LevelAnalytical,
		Message:     fmt.Sprintf("%s calculation is incomplete: reference data was missing", section),
		SpecPath:    string(section),
		Suggestions: warnings,
	})
	r.MarkIncomplete(section)
}

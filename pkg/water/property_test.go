package water

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

func TestWaterInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	build := func(showers, sinks int, lengths []float64) spec.WaterSpec {
		ws := bathroomSpec()
		ws.Rooms[0].Fixtures = nil
		ws.Rooms[0].Fixtures.Set("ducha", showers)
		ws.Rooms[0].Fixtures.Set("pileta_cocina", sinks)
		ws.Network.Cold = nil
		for i, l := range lengths {
			ws.Network.Cold = append(ws.Network.Cold, spec.Segment{
				ID: fmt.Sprintf("t%d", i), LengthM: l, Feeds: spec.FeedsRoom, TargetID: "bano",
				Fittings: spec.Counts{"codo90": i % 3},
			})
		}
		return ws
	}

	properties.Property("velocity within max or degraded with warning", prop.ForAll(
		func(showers, sinks int, maxV float64, lengths []float64) bool {
			cat := testCatalog()
			cat.Velocity.MaxMS = maxV
			res := Compute(Input{Spec: build(showers, sinks, lengths), Catalogs: cat})
			for _, s := range res.Segments {
				if s.VelocityMS <= maxV {
					continue
				}
				if s.Sizing != SizingDegraded || s.DN != 32 || !containsWarning(res.Warnings, "exceeds") {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.Float64Range(0.3, 3),
		gen.SliceOfN(4, gen.Float64Range(0, 40)),
	))

	properties.Property("losses are non-negative and pressure never rises", prop.ForAll(
		func(showers int, lengths []float64) bool {
			res := Compute(Input{Spec: build(showers, 1, lengths), Catalogs: testCatalog()})
			prev := res.StartPressureM
			for _, s := range res.Segments {
				if s.LossM < 0 || s.PressureEndM > prev {
					return false
				}
				prev = s.PressureEndM
			}
			return res.MinPressureM <= res.StartPressureM
		},
		gen.IntRange(0, 30),
		gen.SliceOf(gen.Float64Range(0, 50)),
	))

	properties.Property("material keys are unique", prop.ForAll(
		func(showers int, lengths []float64) bool {
			res := Compute(Input{Spec: build(showers, 2, lengths), Catalogs: testCatalog()})
			seen := map[string]bool{}
			for _, m := range res.Materials {
				k := m.Key + "|" + m.Unit
				if seen[k] || m.Qty <= 0 {
					return false
				}
				seen[k] = true
			}
			return true
		},
		gen.IntRange(0, 30),
		gen.SliceOf(gen.Float64Range(0, 50)),
	))

	properties.TestingRun(t)
}

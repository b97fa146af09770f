// Package water sizes the cold and hot water branches of a dwelling:
// probable flow, diameter by velocity, Hazen-Williams loss and a running
// pressure budget per network.
package water

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/hydraulics"
	"github.com/home265/bob-obras-sanitarias/pkg/network"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// fallbackPipe is used when the pipe catalog is empty.
var fallbackPipe = catalog.WaterPipe{DN: 20, InnerMM: 16.2, C: 150, BarM: 4}

type calc struct {
	in       Input
	params   Params
	limits   catalog.VelocityLimits
	pipes    []catalog.WaterPipe
	graph    *network.Graph
	agg      *bom.Aggregator
	warnings report.Notes
	recs     report.Notes
	res      *Result
}

// Compute sizes every branch of both networks in declaration order.
// It never fails: missing data degrades to zeros or fallbacks and is
// reported through Warnings and Incomplete.
func Compute(in Input) *Result {
	params := in.Params.withDefaults()
	c := &calc{
		in:     in,
		params: params,
		limits: in.Catalogs.Velocity.WithDefaults(),
		pipes:  usablePipes(in.Catalogs.PipesAscending()),
		graph:  network.Build(in.Spec.Rooms, in.Spec.Network.Cold, in.Spec.Network.Hot),
		agg:    bom.NewAggregator(),
		res: &Result{
			Segments:          []SegmentResult{},
			StartPressureM:    in.Spec.Building.StartPressureM(),
			RequiredPressureM: params.MinPressureM,
		},
	}
	b := in.Spec.Building

	// 1. Reference checks
	if len(c.pipes) == 0 {
		c.warnings.Addf("pipe catalog is empty; using fallback DN %d pipe", fallbackPipe.DN)
		c.res.Incomplete = true
	}
	for _, id := range c.graph.Dangling() {
		c.warnings.Addf("branch %q: destination not found, demand taken as 0", id)
	}
	for _, id := range c.graph.Cycles() {
		c.warnings.Addf("branch %q: feed chain loops back on itself, demand taken as 0", id)
	}

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Tank height",
		Qty:   formatNum(b.TankHeightM),
		Unit:  "m",
	})

	// 2. Size each network independently
	pCold := c.sizeNetwork(Cold, in.Spec.Network.Cold)
	pHot := c.sizeNetwork(Hot, in.Spec.Network.Hot)

	// 3. Pressure budget
	pressures := append(pCold, pHot...)
	c.res.MinPressureM = c.res.StartPressureM
	if len(pressures) > 0 {
		c.res.MinPressureM = floats.Min(pressures)
	}
	losses := make([]float64, len(c.res.Segments))
	for i, s := range c.res.Segments {
		losses[i] = s.LossM
	}
	c.res.TotalLossM = floats.Sum(losses)
	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Minimum pressure",
		Qty:   fmt.Sprintf("%.2f", c.res.MinPressureM),
		Unit:  "m.c.a.",
		Hint:  fmt.Sprintf("Start: %.2f m | Total loss: %.2f m", c.res.StartPressureM, c.res.TotalLossM),
	})
	c.checkPressure()

	// 4. Hot water appliance
	c.sizeBoiler()

	c.res.Recommendations = c.recs.List()
	c.res.Warnings = c.warnings.List()
	c.res.Materials = c.agg.Lines()
	return c.res
}

// sizeNetwork sizes the branches of one network and returns the running
// pressure after each branch.
func (c *calc) sizeNetwork(net Network, segs []spec.Segment) []float64 {
	pressure := c.res.StartPressureM
	var trail []float64

	for _, seg := range segs {
		sr := c.sizeSegment(net, seg)
		pressure -= sr.LossM
		sr.PressureEndM = pressure
		trail = append(trail, pressure)

		if net == Hot {
			c.res.HotWaterFlowLS += sr.FlowLS
		}
		c.res.Segments = append(c.res.Segments, sr)
		c.res.Rows = append(c.res.Rows, report.Row{
			Label: fmt.Sprintf("%s branch: %s", networkLabel(net), seg.Label()),
			Qty:   fmt.Sprintf("Ø%dmm", sr.DN),
			Unit:  fmt.Sprintf("Flow: %.2f L/s", sr.FlowLS),
			Hint: fmt.Sprintf("Velocity: %.2f m/s | Loss: %.2f m | Pressure: %.2f m",
				sr.VelocityMS, sr.LossM, sr.PressureEndM),
		})
	}
	return trail
}

func (c *calc) sizeSegment(net Network, seg spec.Segment) SegmentResult {
	sr := SegmentResult{ID: seg.ID, Name: seg.Label(), Network: net}

	// 1. Demand
	sr.UC = c.graph.Demand(seg, c.weigh)
	sr.FlowLS = c.probableFlow(sr.UC)
	q := hydraulics.LPSToM3S(sr.FlowLS)

	// 2. Diameter by velocity
	pipe, v, sizing := c.selectPipe(q)
	sr.DN, sr.InnerMM, sr.VelocityMS, sr.Sizing = pipe.DN, pipe.InnerMM, v, sizing
	switch {
	case v > c.limits.MaxMS && len(c.pipes) == 0:
		c.warnings.Addf("branch %q: velocity %.2f m/s exceeds %.2f m/s at fallback DN %d",
			seg.Label(), v, c.limits.MaxMS, pipe.DN)
	case v > c.limits.MaxMS:
		c.warnings.Addf("branch %q: velocity %.2f m/s exceeds %.2f m/s even at DN %d (largest available)",
			seg.Label(), v, c.limits.MaxMS, pipe.DN)
	case v < c.limits.MinMS:
		c.warnings.Addf("branch %q: velocity %.2f m/s below minimum %.2f m/s",
			seg.Label(), v, c.limits.MinMS)
	}

	// 3. Equivalent length
	length := math.Max(0, seg.LengthM)
	for _, kind := range seg.Fittings.Keys() {
		n := seg.Fittings.Get(kind)
		leq, rowDN, ok := c.in.Catalogs.Leq(kind, pipe.DN)
		switch {
		case !ok:
			c.warnings.Addf("no equivalent length for %s at DN %d; counted as 0", kind, pipe.DN)
			c.res.Incomplete = true
		case rowDN != pipe.DN:
			c.warnings.Addf("no equivalent length for %s at DN %d; using the DN %d value (%s m)",
				kind, pipe.DN, rowDN, formatNum(leq))
		}
		sr.LeqM += leq * float64(n)
	}
	sr.TotalLengthM = length + sr.LeqM

	// 4. Head loss
	sr.LossM = hydraulics.HazenWilliamsLossM(sr.TotalLengthM, q, pipe.C, hydraulics.MMToM(pipe.InnerMM))

	// 5. Materials
	barM := pipe.BarM
	if barM <= 0 {
		barM = c.params.DefaultBarM
	}
	sr.Bars = hydraulics.CeilDiv(sr.TotalLengthM, barM)
	c.agg.Add(fmt.Sprintf("PPR-PIPE-%d", pipe.DN),
		fmt.Sprintf("PPR pipe DN %d mm (%s m bar)", pipe.DN, formatNum(barM)),
		float64(sr.Bars), bom.UnitBar)
	for _, kind := range seg.Fittings.Keys() {
		code, ok := c.in.Catalogs.PartCode(kind, pipe.DN)
		if !ok {
			code = fmt.Sprintf("PPR-%s-%d", strings.ToUpper(kind), pipe.DN)
		}
		c.agg.Add(code, fmt.Sprintf("PPR %s DN %d mm", strings.ReplaceAll(kind, "_", " "), pipe.DN),
			float64(seg.Fittings.Get(kind)), bom.UnitEach)
	}
	return sr
}

// weigh sums consumption units of a fixture tally. Unknown fixture types
// weigh zero and are reported.
func (c *calc) weigh(fixtures spec.Counts) float64 {
	total := 0.0
	for _, kind := range fixtures.Keys() {
		w, ok := c.in.Catalogs.FixtureWeights[kind]
		if !ok {
			c.warnings.Addf("no consumption units for fixture %q; counted as 0", kind)
			c.res.Incomplete = true
			continue
		}
		total += w * float64(fixtures.Get(kind))
	}
	return total
}

func (c *calc) probableFlow(uc float64) float64 {
	if uc <= 0 {
		return c.params.FloorFlowLS
	}
	flow, ok := c.in.Catalogs.ProbableFlow.Lookup(uc)
	if !ok || flow <= 0 {
		return c.params.FloorFlowLS
	}
	return flow
}

// selectPipe returns the smallest pipe whose velocity stays within the
// maximum, or the largest pipe tagged as degraded.
func (c *calc) selectPipe(q float64) (catalog.WaterPipe, float64, Sizing) {
	if len(c.pipes) == 0 {
		return fallbackPipe, hydraulics.VelocityMS(q, hydraulics.MMToM(fallbackPipe.InnerMM)), SizingDegraded
	}
	for _, p := range c.pipes {
		v := hydraulics.VelocityMS(q, hydraulics.MMToM(p.InnerMM))
		if v <= c.limits.MaxMS {
			return p, v, SizingOK
		}
	}
	largest := c.pipes[len(c.pipes)-1]
	return largest, hydraulics.VelocityMS(q, hydraulics.MMToM(largest.InnerMM)), SizingDegraded
}

func (c *calc) checkPressure() {
	minP := c.res.MinPressureM
	threshold := c.params.MinPressureM
	if len(c.res.Segments) == 0 {
		return
	}
	if minP >= threshold {
		c.recs.Addf("Minimum pressure %.2f m meets the %.1f m (%.1f bar) threshold at the most unfavourable fixture.",
			minP, threshold, threshold/10)
		return
	}
	switch c.in.Spec.Building.Supply {
	case spec.SupplyMains:
		c.recs.Addf("Minimum pressure %.2f m is below %.1f m: mains pressure is not enough; add a cistern with a pressure pump.",
			minP, threshold)
	case spec.SupplyCisternPumpTank:
		c.recs.Addf("Minimum pressure %.2f m is below %.1f m: raise the tank above the pump outlet or add a pressurizer after the tank.",
			minP, threshold)
	default:
		c.recs.Addf("Minimum pressure %.2f m is below %.1f m: raise the tank, enlarge the critical branches or add a pressurizer.",
			minP, threshold)
	}
}

// sizeBoiler estimates a combi boiler from the simultaneous hot water flow:
// kcal/h = Q[L/s] · 3600 · ΔT / η, rounded up to the next thousand.
func (c *calc) sizeBoiler() {
	b := c.in.Spec.Building
	if b.HotWater.Type != spec.HotWaterCombiBoiler || c.res.HotWaterFlowLS <= 0 {
		return
	}
	raw := c.res.HotWaterFlowLS * 3600 * c.params.BoilerDeltaTC / c.params.BoilerEfficiency
	c.res.BoilerKcalH = math.Ceil(hydraulics.Round(raw/1000, 9)) * 1000
	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Combi boiler (DHW)",
		Qty:   fmt.Sprintf("%.0f", c.res.BoilerKcalH),
		Unit:  "kcal/h",
		Hint:  fmt.Sprintf("Hot water flow: %.2f L/s", c.res.HotWaterFlowLS),
	})
	c.recs.Addf("For a simultaneous hot water flow of %.2f L/s, use a combi boiler of at least %.0f kcal/h.",
		c.res.HotWaterFlowLS, c.res.BoilerKcalH)
}

func usablePipes(pipes []catalog.WaterPipe) []catalog.WaterPipe {
	out := pipes[:0]
	for _, p := range pipes {
		if p.InnerMM > 0 && p.C > 0 {
			out = append(out, p)
		}
	}
	return out
}

func networkLabel(n Network) string {
	if n == Hot {
		return "Hot"
	}
	return "Cold"
}

func formatNum(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

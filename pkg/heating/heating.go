// Package heating computes room heat losses against the winter design
// temperature of an Argentine climate zone and sizes radiant floor loops
// or radiators and the boiler.
package heating

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/home265/bob-obras-sanitarias/pkg/bom"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/hydraulics"
	"github.com/home265/bob-obras-sanitarias/pkg/report"
	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

const (
	keyPEXRoll     = "tubo_pex_rollo_200m"
	keyStrip       = "banda_perimetral"
	keyElement     = "radiador_elemento_50cm"
	keyRadiatorKit = "kit_instalacion_radiador"
)

type calc struct {
	in       Input
	params   Params
	floors   int
	agg      *bom.Aggregator
	warnings report.Notes
	recs     report.Notes
	res      *Result
}

// Compute balances every room and sizes the emitters and boiler. Missing
// zones or transmittance keys count as zero and mark the result
// Incomplete.
func Compute(in Input) *Result {
	c := &calc{
		in:     in,
		params: in.Params.withDefaults(),
		floors: in.Spec.System.Floors,
		agg:    bom.NewAggregator(),
		res:    &Result{Rooms: []RoomLoad{}},
	}
	for _, r := range in.Spec.Rooms {
		if r.Floor+1 > c.floors {
			c.floors = r.Floor + 1
		}
	}

	// 1. Design temperature
	zone, ok := in.Catalogs.Zone(in.Spec.System.ClimateZoneID)
	if !ok {
		c.warnings.Addf("climate zone %q not found; design temperature taken as 0 °C", in.Spec.System.ClimateZoneID)
		c.res.Incomplete = true
	}
	c.res.DesignTempC = zone.DesignTempC
	c.res.DeltaTC = c.params.ComfortTempC - zone.DesignTempC
	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Design ΔT",
		Qty:   formatNum(c.res.DeltaTC),
		Unit:  "°C",
		Hint:  fmt.Sprintf("Indoor %s °C | Outdoor %s °C", formatNum(c.params.ComfortTempC), formatNum(zone.DesignTempC)),
	})

	// 2. Room losses
	watts := make([]float64, 0, len(in.Spec.Rooms))
	for _, r := range in.Spec.Rooms {
		load := c.roomLoad(r)
		watts = append(watts, load.TotalW)
		c.res.TotalKcalH += load.KcalH
		c.res.Rooms = append(c.res.Rooms, load)
	}
	c.res.TotalW = hydraulics.Round(floats.Sum(watts), 2)

	// 3. Emitters
	switch in.Spec.System.Type {
	case spec.Radiators:
		c.radiators()
	default:
		c.radiantFloor()
	}
	for _, load := range c.res.Rooms {
		c.res.Rows = append(c.res.Rows, c.roomRow(load))
	}

	// 4. Boiler
	c.boiler()

	c.res.Recommendations = c.recs.List()
	c.res.Warnings = c.warnings.List()
	c.res.Materials = c.agg.Lines()
	return c.res
}

func (c *calc) roomLoad(r spec.HeatedRoom) RoomLoad {
	load := RoomLoad{
		ID:     r.ID,
		Name:   label(r.Name, r.ID),
		Floor:  r.Floor,
		AreaM2: hydraulics.Round(r.PlanAreaM2(), 2),
	}
	dt := c.res.DeltaTC

	load.WallW = c.loss(&load, catalog.SurfaceWall, r.WallType, r.WallAreaM2, dt)
	load.GlazingW = c.loss(&load, catalog.SurfaceGlazing, r.GlazingType, r.GlazingAreaM2, dt)
	if r.Floor == c.floors-1 {
		load.RoofW = c.loss(&load, catalog.SurfaceRoof, r.RoofType, r.RoofAreaM2, dt)
	}
	if r.Floor == 0 && r.FloorAreaM2 > 0 {
		load.FloorW = c.loss(&load, catalog.SurfaceFloor, r.FloorType, r.FloorAreaM2, dt)
	}
	load.TotalW = load.WallW + load.GlazingW + load.RoofW + load.FloorW
	load.KcalH = math.Ceil(hydraulics.Round(load.TotalW*c.params.WattToKcalH, 9))
	if load.Incomplete {
		c.res.Incomplete = true
	}
	return load
}

// loss returns k · area · ΔT for one surface, or 0 when it is absent.
func (c *calc) loss(load *RoomLoad, surface catalog.Surface, key string, area, dt float64) float64 {
	if area <= 0 {
		return 0
	}
	k, ok := c.in.Catalogs.Transmittances.K(surface, key)
	if !ok {
		c.warnings.Addf("room %q: no transmittance for %s %q; loss counted as 0", load.Name, surface, key)
		load.Incomplete = true
		return 0
	}
	return k * area * dt
}

func (c *calc) radiantFloor() {
	slab := c.in.Spec.Slab
	spacing := slab.LoopSpacingCM
	if spacing <= 0 {
		spacing = c.params.LoopSpacingCM
	}
	maxLoop := slab.MaxLoopLengthM
	if maxLoop <= 0 {
		maxLoop = c.params.MaxLoopLengthM
	}

	var total, perimeter float64
	looped := 0
	for i := range c.res.Rooms {
		load := &c.res.Rooms[i]
		room := c.in.Spec.Rooms[i]
		if load.AreaM2 <= 0 {
			continue
		}
		load.LoopM = float64(hydraulics.CeilDiv(load.AreaM2*100, spacing))
		load.Circuits = 1
		if load.LoopM > maxLoop {
			load.Circuits = hydraulics.CeilDiv(load.LoopM, maxLoop)
			c.recs.Addf("Room %q: %.0f m of pipe exceeds %s m per circuit; split it into %d circuits.",
				load.Name, load.LoopM, formatNum(maxLoop), load.Circuits)
		}
		total += load.LoopM
		perimeter += room.PlanPerimeterM()
		looped++
	}
	if looped == 0 {
		return
	}
	// one manifold way per declared room
	ways := len(c.res.Rooms)

	rolls := hydraulics.CeilDiv(total, c.params.RollLengthM)
	c.agg.Add(keyPEXRoll, fmt.Sprintf("PEX pipe, %s m roll", formatNum(c.params.RollLengthM)), float64(rolls), bom.UnitRoll)
	c.agg.Add(fmt.Sprintf("colector_completo_%d_vias", ways), fmt.Sprintf("Manifold, %d ways", ways), 1, bom.UnitEach)
	c.agg.Add(keyStrip, "Perimeter expansion strip", hydraulics.Round(perimeter, 2), bom.UnitMeter)

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Radiant floor pipe",
		Qty:   fmt.Sprintf("%.0f", total),
		Unit:  "m",
		Hint:  fmt.Sprintf("Spacing %s cm | %d rolls | manifold %d ways", formatNum(spacing), rolls, ways),
	})
	c.recs.Addf("Lay loops at %s cm spacing over insulation and a perimeter strip; balance circuits at the manifold.", formatNum(spacing))
}

func (c *calc) radiators() {
	total := 0
	for i := range c.res.Rooms {
		load := &c.res.Rooms[i]
		c.agg.Add(keyRadiatorKit, "Radiator installation kit", 1, bom.UnitKit)
		if load.KcalH <= 0 {
			continue
		}
		load.Elements = hydraulics.CeilDiv(load.KcalH, c.params.ElementKcalH)
		total += load.Elements
	}
	if total == 0 {
		return
	}
	c.agg.Add(keyElement, "Aluminium radiator element 50 cm", float64(total), bom.UnitEach)
	c.res.Rows = append(c.res.Rows, report.Rowf("Radiator elements", "u",
		fmt.Sprintf("%s kcal/h per element", formatNum(c.params.ElementKcalH)), "%d", total))
}

// boiler applies the safety margin and rounds up to the next thousand.
func (c *calc) boiler() {
	if c.res.TotalKcalH <= 0 {
		return
	}
	raw := c.res.TotalKcalH * c.params.SafetyMargin
	c.res.BoilerKcalH = math.Ceil(hydraulics.Round(raw/1000, 9)) * 1000
	capacity := fmt.Sprintf("%.0f", c.res.BoilerKcalH)

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Boiler",
		Qty:   capacity,
		Unit:  "kcal/h",
		Hint:  fmt.Sprintf("Load %.0f kcal/h × %s", c.res.TotalKcalH, formatNum(c.params.SafetyMargin)),
	})
	c.agg.Add("caldera_mural_"+capacity+"_kcal", "Wall-hung boiler "+capacity+" kcal/h", 1, bom.UnitEach)
	c.recs.Addf("Select a boiler of at least %s kcal/h.", capacity)

	if c.res.TotalKcalH > c.params.PumpThresholdKcalH {
		c.res.PumpRequired = true
		c.recs.Addf("Total load above %.0f kcal/h: add a circulation pump sized for the longest circuit.",
			c.params.PumpThresholdKcalH)
	}
	if c.in.Spec.System.DualBoiler {
		c.recs.Addf("Dual-service boiler: check that its domestic hot water output covers simultaneous use while heating.")
	}
}

func (c *calc) roomRow(load RoomLoad) report.Row {
	hint := fmt.Sprintf("Walls %.0f W | Glazing %.0f W | Roof %.0f W | Floor %.0f W",
		load.WallW, load.GlazingW, load.RoofW, load.FloorW)
	switch {
	case load.Circuits > 0:
		hint += fmt.Sprintf(" | Loop %.0f m (%d circuits)", load.LoopM, load.Circuits)
	case load.Elements > 0:
		hint += fmt.Sprintf(" | %d elements", load.Elements)
	}
	return report.Row{
		Label: fmt.Sprintf("Room: %s", load.Name),
		Qty:   fmt.Sprintf("%.0f", load.KcalH),
		Unit:  "kcal/h",
		Hint:  hint,
	}
}

func label(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func formatNum(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

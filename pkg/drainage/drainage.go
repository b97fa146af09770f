// Package drainage checks the sanitary drainage of a dwelling: riser
// lengths, collector slope against the sewer connection depth, inspection
// access, ventilation and static disposal.
package drainage

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

// Material keys shared with the rest of the catalog.
const (
	keyChamber = "camara_inspeccion_60x60"
	keySeptic  = "camara_septica_1000l"
	keyGlue    = "pegamento_pvc"
	keyCleaner = "limpiador_pvc"
	keyGasket  = "junta_elastica"

	defaultGlueCode    = "PVC-PEG-01"
	defaultCleanerCode = "PVC-LIM-01"
)

type calc struct {
	in       Input
	params   Params
	system   spec.PVCSystem
	spacing  float64
	agg      *bom.Aggregator
	warnings report.Notes
	recs     report.Notes
	res      *Result
}

// Compute validates every riser, collector and vent run and sizes static
// disposal when there is no sewer. Failures mark the affected run as not
// OK; the remaining runs are still reported.
func Compute(in Input) *Result {
	c := &calc{
		in:      in,
		params:  in.Params.withDefaults(),
		system:  in.Spec.System,
		spacing: in.Catalogs.Access.GeneralM,
		agg:     bom.NewAggregator(),
		res: &Result{
			Runs:   []RunResult{},
			Access: []AccessPoints{},
		},
	}
	if c.system == "" {
		c.system = spec.PVCGlued
	}
	if c.spacing <= 0 {
		c.spacing = catalog.DefaultAccessSpacing.GeneralM
	}

	// 1. Fixtures discharging into the network
	fixtures := 0
	for _, r := range in.Spec.Rooms {
		fixtures += r.Fixtures.Total()
	}
	if len(in.Spec.Rooms) > 0 {
		c.res.Rows = append(c.res.Rows, report.Rowf("Fixtures discharging", "u",
			fmt.Sprintf("%d rooms", len(in.Spec.Rooms)), "%d", fixtures))
	}

	// 2. Risers
	for _, r := range in.Spec.Risers {
		c.addRun(c.riser(r))
	}

	// 3. Collectors
	for _, col := range in.Spec.Collectors {
		c.addRun(c.collector(col))
	}

	// 4. Ventilation
	for _, v := range in.Spec.Vents {
		c.addRun(c.vent(v))
	}
	if len(in.Spec.Vents) > 0 {
		c.recs.Addf("Run every vent at least 0.60 m above the roof and away from openings; keep its diameter down to the connection.")
	}

	// 5. Disposal
	if in.Spec.Disposal.Type == spec.DisposalStatic {
		c.staticDisposal()
	}

	c.summarize()

	c.res.Recommendations = c.recs.List()
	c.res.Warnings = c.warnings.List()
	c.res.Materials = c.agg.Lines()
	return c.res
}

func (c *calc) addRun(run RunResult) {
	c.res.Runs = append(c.res.Runs, run)
	if run.LiftPumpRequired {
		c.res.LiftPumpRequired = true
	}
}

func (c *calc) riser(r spec.Riser) RunResult {
	b := c.in.Spec.Building
	dn := c.params.RiserDN
	run := RunResult{
		ID:      r.ID,
		Name:    label(r.Name, r.ID),
		Kind:    KindRiser,
		DN:      dn,
		LengthM: float64(r.DischargeFloor+1) * math.Max(0, b.FloorHeightM),
		OK:      true,
	}
	if b.FloorHeightM <= 0 {
		run.OK = false
		run.Reason = "floor height not declared"
		c.warnings.Addf("riser %q: floor height not declared, length taken as 0", run.Name)
		c.res.Incomplete = true
	}
	run.Bars = c.pipe(dn, run.LengthM)
	c.consumables(dn, run.Bars)

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: fmt.Sprintf("Riser: %s", run.Name),
		Qty:   fmt.Sprintf("Ø%dmm", dn),
		Unit:  fmt.Sprintf("%s m", formatNum(run.LengthM)),
		Hint:  fmt.Sprintf("%d bars", run.Bars),
	})
	return run
}

func (c *calc) collector(col spec.Collector) RunResult {
	d := c.in.Spec.Disposal
	dn := col.DN
	if dn <= 0 {
		dn = c.params.CollectorDN
	}
	run := RunResult{
		ID:      col.ID,
		Name:    label(col.Name, col.ID),
		Kind:    KindCollector,
		DN:      dn,
		LengthM: math.Max(0, col.LengthM),
		OK:      true,
	}

	// 1. Slope
	slope := c.params.FallbackSlopeCMPerM
	rng, ok := c.in.Catalogs.Slope(dn)
	switch {
	case !ok:
		run.fail(fmt.Sprintf("no slope range for DN %d", dn))
		c.warnings.Addf("collector %q: no slope range for DN %d; using %.2f cm/m", run.Name, dn, slope)
		c.res.Incomplete = true
		if col.SlopeCMPerM > 0 {
			slope = col.SlopeCMPerM
		}
	case col.SlopeCMPerM > 0:
		slope = col.SlopeCMPerM
		if slope < rng.Min {
			run.fail(fmt.Sprintf("slope %.2f cm/m below minimum %.2f cm/m", slope, rng.Min))
		} else if rng.Max > 0 && slope > rng.Max {
			c.warnings.Addf("collector %q: slope %.2f cm/m above maximum %.2f cm/m; solids may settle",
				run.Name, slope, rng.Max)
		}
	default:
		if rng.Recommended > 0 {
			slope = rng.Recommended
		}
	}
	run.SlopeCMPerM = slope

	// 2. Depth
	start := d.StartDepthCM
	if start <= 0 {
		start = c.params.StartDepthCM
	}
	run.DropCM = hydraulics.Round(run.LengthM*slope, 2)
	run.ExitDepthCM = hydraulics.Round(start+run.DropCM, 2)
	if d.Type != spec.DisposalStatic {
		c.checkClearance(&run, d.ConnectionDepthCM)
	}

	// 3. Inspection access
	run.Chambers = int(math.Floor(hydraulics.Round(run.LengthM/c.spacing, 9)))
	c.res.InspectionChambers += run.Chambers
	if run.Chambers > 0 {
		c.agg.Add(keyChamber, "Inspection chamber 60x60", float64(run.Chambers), bom.UnitEach)
		c.recs.Addf("Collector %q: provide %d inspection chamber(s), no more than %s m apart.",
			run.Name, run.Chambers, formatNum(c.spacing))
	}
	if positions := accessPositions(run.LengthM, c.spacing); len(positions) > 0 {
		c.res.Access = append(c.res.Access, AccessPoints{RunID: run.ID, PositionsM: positions})
	}

	// 4. Materials
	run.Bars = c.pipe(dn, run.LengthM)
	joints := run.Bars + c.fittings(col.Fittings, dn)
	c.consumables(dn, joints)

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: fmt.Sprintf("Collector: %s", run.Name),
		Qty:   fmt.Sprintf("Ø%dmm", dn),
		Unit:  fmt.Sprintf("%s m @ %.2f cm/m", formatNum(run.LengthM), slope),
		Hint:  fmt.Sprintf("Drop: %.1f cm | Exit depth: %.1f cm", run.DropCM, run.ExitDepthCM),
	})
	return run
}

// checkClearance compares the collector exit depth with the sewer
// connection depth.
func (c *calc) checkClearance(run *RunResult, connection float64) {
	if connection <= 0 {
		c.warnings.Addf("collector %q: sewer connection depth not declared, gravity discharge not checked", run.Name)
		c.res.Incomplete = true
		return
	}
	if run.ExitDepthCM > connection {
		run.LiftPumpRequired = true
		run.fail(fmt.Sprintf("exit depth %.1f cm is below the sewer connection at %.1f cm", run.ExitDepthCM, connection))
		c.recs.Addf("ALERT: collector %q reaches %.1f cm but the sewer connection is at %.1f cm. A lift pump (sump with pump) is required.",
			run.Name, run.ExitDepthCM, connection)
		return
	}
	c.recs.Addf("Collector %q discharges by gravity: exit depth %.1f cm, sewer connection at %.1f cm.",
		run.Name, run.ExitDepthCM, connection)
}

func (c *calc) vent(v spec.VentRun) RunResult {
	run := RunResult{
		ID:      v.ID,
		Name:    label(v.Name, v.ID),
		Kind:    KindVent,
		DN:      v.DN,
		LengthM: math.Max(0, v.LengthM),
		OK:      true,
	}
	if v.DN <= 0 {
		run.fail("diameter not declared")
		c.warnings.Addf("vent %q: diameter not declared, no materials computed", run.Name)
		c.res.Incomplete = true
		return run
	}
	run.Bars = c.pipe(v.DN, run.LengthM)
	joints := run.Bars + c.fittings(v.Fittings, v.DN)
	if v.Termination == spec.VentCap {
		c.agg.Add(fmt.Sprintf("sombrerete_%d", v.DN), fmt.Sprintf("Vent cap DN %d mm", v.DN), 1, bom.UnitEach)
		joints++
	}
	c.consumables(v.DN, joints)

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: fmt.Sprintf("Vent: %s", run.Name),
		Qty:   fmt.Sprintf("Ø%dmm", v.DN),
		Unit:  fmt.Sprintf("%s m", formatNum(run.LengthM)),
		Hint:  fmt.Sprintf("%d bars", run.Bars),
	})
	return run
}

// pipe adds the bars for a run and returns their count.
func (c *calc) pipe(dn int, length float64) int {
	barM := c.in.Catalogs.PVC.BarLength(dn, c.params.DefaultBarM)
	bars := hydraulics.CeilDiv(length, barM)
	c.agg.Add(c.pipeKey(dn), fmt.Sprintf("PVC pipe DN %d mm (%s m bar)", dn, formatNum(barM)),
		float64(bars), bom.UnitBar)
	return bars
}

func (c *calc) pipeKey(dn int) string {
	if c.system == spec.PVCGasket {
		return fmt.Sprintf("PVCJ-PIPE-%d", dn)
	}
	return fmt.Sprintf("PVC-PIPE-%d", dn)
}

// fittings adds one line per fitting type and returns the number of pieces.
func (c *calc) fittings(counts spec.Counts, dn int) int {
	for _, kind := range counts.Keys() {
		code, ok := c.in.Catalogs.PVC.FittingCode(kind, dn)
		if !ok {
			code = fmt.Sprintf("pvc_%s_%d", kind, dn)
		}
		c.agg.Add(code, fmt.Sprintf("PVC %s DN %d mm", strings.ReplaceAll(kind, "_", " "), dn),
			float64(counts.Get(kind)), bom.UnitEach)
	}
	return counts.Total()
}

// consumables adds jointing material for a run: cement and cleaner kits
// for glued systems, one seal per joint for gasket systems.
func (c *calc) consumables(dn, joints int) {
	if joints <= 0 {
		return
	}
	if c.system == spec.PVCGasket {
		code, ok := c.in.Catalogs.PVC.SupplyCode(keyGasket, dn)
		if !ok {
			code = fmt.Sprintf("PVCJ-ARO-%d", dn)
		}
		c.agg.Add(code, fmt.Sprintf("Rubber seal DN %d mm", dn), float64(joints), bom.UnitEach)
		return
	}
	kits := hydraulics.CeilDiv(float64(joints), float64(c.params.JointsPerKit))
	if kits < 1 {
		kits = 1
	}
	glue, ok := c.in.Catalogs.PVC.SupplyCode(keyGlue, dn)
	if !ok {
		glue = defaultGlueCode
	}
	cleaner, ok := c.in.Catalogs.PVC.SupplyCode(keyCleaner, dn)
	if !ok {
		cleaner = defaultCleanerCode
	}
	c.agg.Add(glue, "PVC solvent cement", float64(kits), bom.UnitEach)
	c.agg.Add(cleaner, "PVC cleaner", float64(kits), bom.UnitEach)
}

// staticDisposal sizes the absorption pit for a month of discharge and
// always adds a septic chamber ahead of it.
func (c *calc) staticDisposal() {
	d := c.in.Spec.Disposal
	s := &SepticResult{Occupants: d.Occupants}
	c.res.Septic = s
	if d.Occupants <= 0 {
		c.warnings.Addf("static disposal: occupants not declared, volume taken as 0")
		c.res.Incomplete = true
	}
	s.VolumeL = float64(max(d.Occupants, 0)) * c.params.DailyAllowanceL * c.params.RetentionDays
	s.PitM3 = float64(hydraulics.CeilDiv(s.VolumeL, 1000))

	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Static disposal volume",
		Qty:   fmt.Sprintf("%.0f", s.PitM3),
		Unit:  "m³",
		Hint: fmt.Sprintf("%d occupants × %s L/day × %s days = %.0f L",
			d.Occupants, formatNum(c.params.DailyAllowanceL), formatNum(c.params.RetentionDays), s.VolumeL),
	})
	if d.PitDistanceM > 0 {
		c.res.Rows = append(c.res.Rows, report.Rowf("Distance to pit", "m", "", "%s", formatNum(d.PitDistanceM)))
	}
	c.agg.Add(keySeptic, "Septic chamber 1000 L", 1, bom.UnitEach)
	c.recs.Addf("Install a septic chamber ahead of the absorption pit; size the pit for at least %.0f m³.", s.PitM3)
}

func (c *calc) summarize() {
	if len(c.res.Runs) == 0 {
		return
	}
	lengths := make([]float64, len(c.res.Runs))
	failed := 0
	for i, r := range c.res.Runs {
		lengths[i] = r.LengthM
		if !r.OK {
			failed++
		}
	}
	c.res.Rows = append(c.res.Rows, report.Row{
		Label: "Total drainage length",
		Qty:   formatNum(floats.Sum(lengths)),
		Unit:  "m",
		Hint:  fmt.Sprintf("%d runs, %d with issues", len(c.res.Runs), failed),
	})
}

func (r *RunResult) fail(reason string) {
	r.OK = false
	if r.Reason == "" {
		r.Reason = reason
		return
	}
	r.Reason += "; " + reason
}

// accessPositions returns access points every spacing metres strictly
// inside a run.
func accessPositions(length, spacing float64) []float64 {
	var out []float64
	for i := 1; ; i++ {
		x := hydraulics.Round(float64(i)*spacing, 2)
		if x >= length {
			return out
		}
		out = append(out, x)
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

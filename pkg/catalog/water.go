// Package catalog holds the read-only reference tables the engines size
// against, plus a directory loader with typed fallbacks.
package catalog

import "sort"

// WaterPipe is one PPR pipe size.
type WaterPipe struct {
	DN      int     `json:"dn_mm" yaml:"dn_mm"`
	InnerMM float64 `json:"inner_mm" yaml:"inner_mm"`
	C       float64 `json:"c_hw" yaml:"c_hw"`
	BarM    float64 `json:"barra_m" yaml:"barra_m"`
}

// Part is a catalog code for a fitting, valve or supply at a given DN.
type Part struct {
	Code string `json:"code" yaml:"code"`
	Type string `json:"tipo" yaml:"tipo"`
	DN   int    `json:"dn_mm,omitempty" yaml:"dn_mm,omitempty"`
}

// PPRCatalog is the contents of catalogo_ppr.json.
type PPRCatalog struct {
	Pipes    []WaterPipe `json:"pipes" yaml:"pipes"`
	Fittings []Part      `json:"fittings" yaml:"fittings"`
	Valves   []Part      `json:"valves" yaml:"valves"`
}

// EquivalentLength converts one fitting at one DN into straight pipe.
type EquivalentLength struct {
	Type string  `json:"tipo" yaml:"tipo"`
	DN   int     `json:"dn_mm" yaml:"dn_mm"`
	LeqM float64 `json:"leq_m" yaml:"leq_m"`
}

// VelocityLimits is the design velocity envelope in m/s.
type VelocityLimits struct {
	MinMS float64 `json:"min_ms" yaml:"min_ms"`
	MaxMS float64 `json:"max_ms" yaml:"max_ms"`
}

// WithDefaults fills zero limits with 0.6 and 2.0 m/s.
func (v VelocityLimits) WithDefaults() VelocityLimits {
	if v.MinMS <= 0 {
		v.MinMS = DefaultVelocityLimits.MinMS
	}
	if v.MaxMS <= 0 {
		v.MaxMS = DefaultVelocityLimits.MaxMS
	}
	return v
}

// FixtureWeights maps a fixture type to its consumption units.
type FixtureWeights map[string]float64

// FlowBreakpoint maps cumulative consumption units to probable flow.
type FlowBreakpoint struct {
	UC     float64 `json:"uc" yaml:"uc"`
	FlowLS float64 `json:"caudal_ls" yaml:"caudal_ls"`
}

// ProbableFlowTable is a monotonic step table of breakpoints.
type ProbableFlowTable []FlowBreakpoint

// Lookup returns the flow of the first breakpoint (ascending by UC) whose
// UC is >= uc. When uc exceeds every breakpoint the maximum-flow entry is
// used. ok is false only for an empty table.
func (t ProbableFlowTable) Lookup(uc float64) (flowLS float64, ok bool) {
	if len(t) == 0 {
		return 0, false
	}
	sorted := make(ProbableFlowTable, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UC < sorted[j].UC })

	for _, bp := range sorted {
		if uc <= bp.UC {
			return bp.FlowLS, true
		}
	}
	maxFlow := sorted[0].FlowLS
	for _, bp := range sorted[1:] {
		if bp.FlowLS > maxFlow {
			maxFlow = bp.FlowLS
		}
	}
	return maxFlow, true
}

// Water bundles every table the water engine needs.
type Water struct {
	PPR               PPRCatalog         `json:"ppr"`
	EquivalentLengths []EquivalentLength `json:"equivalent_lengths"`
	Velocity          VelocityLimits     `json:"velocity"`
	FixtureWeights    FixtureWeights     `json:"fixture_weights"`
	ProbableFlow      ProbableFlowTable  `json:"probable_flow"`
}

// PipesAscending returns the pipe sizes ordered by nominal diameter.
func (w Water) PipesAscending() []WaterPipe {
	pipes := make([]WaterPipe, len(w.PPR.Pipes))
	copy(pipes, w.PPR.Pipes)
	sort.SliceStable(pipes, func(i, j int) bool { return pipes[i].DN < pipes[j].DN })
	return pipes
}

// Leq returns the equivalent length of a fitting type at a DN. When the
// type has no row at that DN, the row with the closest DN is used (the
// smaller one on a tie) and its DN is returned so callers can flag the
// approximation. ok is false only when the type is not listed at all.
func (w Water) Leq(fitting string, dn int) (leqM float64, rowDN int, ok bool) {
	best := -1
	for i, e := range w.EquivalentLengths {
		if e.Type != fitting {
			continue
		}
		if e.DN == dn {
			return e.LeqM, e.DN, true
		}
		if best < 0 || closer(e.DN, w.EquivalentLengths[best].DN, dn) {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	e := w.EquivalentLengths[best]
	return e.LeqM, e.DN, true
}

func closer(a, b, target int) bool {
	da, db := absInt(a-target), absInt(b-target)
	if da != db {
		return da < db
	}
	return a < b
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// PartCode returns the catalog code of a fitting or valve at a DN.
func (w Water) PartCode(kind string, dn int) (string, bool) {
	for _, list := range [][]Part{w.PPR.Fittings, w.PPR.Valves} {
		for _, p := range list {
			if p.Type == kind && p.DN == dn && p.Code != "" {
				return p.Code, true
			}
		}
	}
	return "", false
}

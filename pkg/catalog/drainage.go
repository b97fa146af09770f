package catalog

// DrainagePipe is one PVC drainage pipe size.
type DrainagePipe struct {
	DN   int     `json:"dn_mm" yaml:"dn_mm"`
	BarM float64 `json:"barra_m" yaml:"barra_m"`
}

// PVCCatalog is the contents of catalogo_pvc_pegamento.json or
// catalogo_pvc_junta.json.
type PVCCatalog struct {
	Pipes    []DrainagePipe `json:"pipes" yaml:"pipes"`
	Fittings []Part         `json:"fittings" yaml:"fittings"`
	Supplies []Part         `json:"insumos" yaml:"insumos"`
}

// BarLength returns the stick length for a DN, or def when absent.
func (c PVCCatalog) BarLength(dn int, def float64) float64 {
	for _, p := range c.Pipes {
		if p.DN == dn && p.BarM > 0 {
			return p.BarM
		}
	}
	return def
}

// FittingCode returns the catalog code of a fitting at a DN.
func (c PVCCatalog) FittingCode(kind string, dn int) (string, bool) {
	for _, f := range c.Fittings {
		if f.Type == kind && f.DN == dn && f.Code != "" {
			return f.Code, true
		}
	}
	return "", false
}

// SupplyCode returns the code of a consumable. Supplies without a DN
// match any DN.
func (c PVCCatalog) SupplyCode(kind string, dn int) (string, bool) {
	for _, s := range c.Supplies {
		if s.Type != kind || s.Code == "" {
			continue
		}
		if s.DN == 0 || s.DN == dn {
			return s.Code, true
		}
	}
	return "", false
}

// SlopeRange is the admissible slope for a DN, in cm per meter.
type SlopeRange struct {
	DN          int     `json:"dn_mm" yaml:"dn_mm"`
	Min         float64 `json:"min" yaml:"min"`
	Recommended float64 `json:"recom" yaml:"recom"`
	Max         float64 `json:"max" yaml:"max"`
}

// AccessSpacing is the maximum distance between inspection accesses.
type AccessSpacing struct {
	GeneralM    float64 `json:"general_m" yaml:"general_m"`
	ToFixturesM float64 `json:"a_artefactos_sin_prol_m" yaml:"a_artefactos_sin_prol_m"`
}

// Drainage bundles every table the drainage engine needs.
type Drainage struct {
	PVC    PVCCatalog    `json:"pvc"`
	Slopes []SlopeRange  `json:"slopes"`
	Access AccessSpacing `json:"access"`
}

// Slope returns the slope range for an exact DN.
func (d Drainage) Slope(dn int) (SlopeRange, bool) {
	for _, s := range d.Slopes {
		if s.DN == dn {
			return s, true
		}
	}
	return SlopeRange{}, false
}

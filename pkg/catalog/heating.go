package catalog

// ClimateZone is an Argentine bioclimatic zone with its winter design temperature.
type ClimateZone struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"nombre" yaml:"nombre"`
	DesignTempC float64 `json:"temperatura_diseno_invierno_c" yaml:"temperatura_diseno_invierno_c"`
}

// Coefficient is the thermal transmittance of one construction type in W/m²K.
type Coefficient struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label" yaml:"label"`
	K     float64 `json:"k" yaml:"k"`
}

// Surface is an envelope category.
type Surface string

const (
	SurfaceWall    Surface = "muros"
	SurfaceRoof    Surface = "techos"
	SurfaceGlazing Surface = "vidrios"
	SurfaceFloor   Surface = "pisos"
)

// Transmittances is the contents of coeficientes_transmitancia.json.
type Transmittances struct {
	Walls   []Coefficient `json:"muros" yaml:"muros"`
	Roofs   []Coefficient `json:"techos" yaml:"techos"`
	Glazing []Coefficient `json:"vidrios" yaml:"vidrios"`
	Floors  []Coefficient `json:"pisos" yaml:"pisos"`
}

// K returns the coefficient for a construction key within a surface category.
func (t Transmittances) K(surface Surface, key string) (float64, bool) {
	var list []Coefficient
	switch surface {
	case SurfaceWall:
		list = t.Walls
	case SurfaceRoof:
		list = t.Roofs
	case SurfaceGlazing:
		list = t.Glazing
	case SurfaceFloor:
		list = t.Floors
	}
	for _, c := range list {
		if c.Key == key {
			return c.K, true
		}
	}
	return 0, false
}

// Heating bundles every table the heating engine needs.
type Heating struct {
	Zones          []ClimateZone  `json:"zones"`
	Transmittances Transmittances `json:"transmittances"`
}

// Zone returns the climate zone with the given id.
func (h Heating) Zone(id string) (ClimateZone, bool) {
	for _, z := range h.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return ClimateZone{}, false
}

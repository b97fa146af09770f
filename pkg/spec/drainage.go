package spec

// DisposalType is where the drainage network discharges.
type DisposalType string

const (
	DisposalSewer  DisposalType = "cloaca"
	DisposalStatic DisposalType = "estatico"
)

// PVCSystem is the jointing method of the drainage pipes.
type PVCSystem string

const (
	PVCGlued  PVCSystem = "pegamento"
	PVCGasket PVCSystem = "junta"
)

// VentTermination is how a vent run ends above the roof.
type VentTermination string

const (
	VentCap  VentTermination = "sombrerete"
	VentOpen VentTermination = "abierto"
)

// DrainageSpec is the input for the drainage ("sanitaria") network.
type DrainageSpec struct {
	Building   DrainageBuilding `yaml:"building" json:"building"`
	Disposal   Disposal         `yaml:"disposal" json:"disposal"`
	System     PVCSystem        `yaml:"system" json:"system" validate:"omitempty,oneof=pegamento junta"`
	Rooms      []Room           `yaml:"rooms,omitempty" json:"rooms,omitempty" validate:"dive"`
	Risers     []Riser          `yaml:"risers,omitempty" json:"risers,omitempty" validate:"dive"`
	Collectors []Collector      `yaml:"collectors,omitempty" json:"collectors,omitempty" validate:"dive"`
	Vents      []VentRun        `yaml:"vents,omitempty" json:"vents,omitempty" validate:"dive"`
}

type DrainageBuilding struct {
	Floors       int     `yaml:"floors" json:"floors" validate:"gte=1"`
	FloorHeightM float64 `yaml:"floor_height_m" json:"floor_height_m" validate:"gte=0"`
}

// Disposal describes the final discharge. ConnectionDepthCM applies to
// sewers; Occupants applies to static disposal.
type Disposal struct {
	Type              DisposalType `yaml:"type" json:"type" validate:"omitempty,oneof=cloaca estatico"`
	ConnectionDepthCM float64      `yaml:"connection_depth_cm" json:"connection_depth_cm" validate:"gte=0"`
	StartDepthCM      float64      `yaml:"start_depth_cm" json:"start_depth_cm" validate:"gte=0"`
	PitDistanceM      float64      `yaml:"pit_distance_m,omitempty" json:"pit_distance_m,omitempty" validate:"gte=0"`
	Occupants         int          `yaml:"occupants,omitempty" json:"occupants,omitempty" validate:"gte=0"`
}

// Riser is a vertical stack ("montante") discharging from a floor down to grade.
type Riser struct {
	ID             string `yaml:"id" json:"id" validate:"required"`
	Name           string `yaml:"name" json:"name"`
	DischargeFloor int    `yaml:"discharge_floor" json:"discharge_floor" validate:"gte=0"`
}

// Collector is a horizontal main drain ("colectora"). DN defaults to 110
// and a zero slope means "use the recommended slope for the DN".
type Collector struct {
	ID          string  `yaml:"id" json:"id" validate:"required"`
	Name        string  `yaml:"name" json:"name"`
	LengthM     float64 `yaml:"length_m" json:"length_m" validate:"gte=0"`
	DN          int     `yaml:"dn_mm,omitempty" json:"dn_mm,omitempty" validate:"gte=0"`
	SlopeCMPerM float64 `yaml:"slope_cm_m,omitempty" json:"slope_cm_m,omitempty" validate:"gte=0"`
	Fittings    Counts  `yaml:"fittings,omitempty" json:"fittings,omitempty"`
}

// VentRun is a ventilation segment.
type VentRun struct {
	ID          string          `yaml:"id" json:"id" validate:"required"`
	Name        string          `yaml:"name" json:"name"`
	DN          int             `yaml:"dn_mm" json:"dn_mm" validate:"gt=0"`
	LengthM     float64         `yaml:"length_m" json:"length_m" validate:"gte=0"`
	Fittings    Counts          `yaml:"fittings,omitempty" json:"fittings,omitempty"`
	Termination VentTermination `yaml:"termination" json:"termination" validate:"omitempty,oneof=sombrerete abierto"`
}

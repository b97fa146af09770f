package spec

// SupplyType describes how the dwelling receives water.
type SupplyType string

const (
	SupplyMains           SupplyType = "red"
	SupplyTank            SupplyType = "tanque"
	SupplyCisternPumpTank SupplyType = "cisterna_bomba_tanque"
)

// HotWaterType is the kind of domestic hot-water appliance.
type HotWaterType string

const (
	HotWaterStorage     HotWaterType = "termo"
	HotWaterInstant     HotWaterType = "calefon"
	HotWaterCombiBoiler HotWaterType = "caldera"
)

// FeedTarget says whether a segment feeds a room or another segment.
type FeedTarget string

const (
	FeedsRoom    FeedTarget = "ambiente"
	FeedsSegment FeedTarget = "tramo"
)

// WaterSpec is the input for the cold/hot water network.
type WaterSpec struct {
	Building WaterBuilding `yaml:"building" json:"building"`
	Rooms    []Room        `yaml:"rooms" json:"rooms" validate:"dive"`
	Network  WaterNetwork  `yaml:"network" json:"network"`
}

type WaterBuilding struct {
	Floors           int            `yaml:"floors" json:"floors" validate:"gte=1"`
	FloorHeightM     float64        `yaml:"floor_height_m" json:"floor_height_m" validate:"gte=0"`
	TankHeightM      float64        `yaml:"tank_height_m" json:"tank_height_m" validate:"gte=0"`
	InitialPressureM float64        `yaml:"initial_pressure_m" json:"initial_pressure_m" validate:"gte=0"`
	Supply           SupplyType     `yaml:"supply" json:"supply" validate:"omitempty,oneof=red tanque cisterna_bomba_tanque"`
	HotWater         HotWaterSource `yaml:"hot_water" json:"hot_water"`
}

// StartPressureM is the head available at the start of every network.
// A declared initial pressure wins; otherwise the tank height is used.
func (b WaterBuilding) StartPressureM() float64 {
	if b.InitialPressureM > 0 {
		return b.InitialPressureM
	}
	return b.TankHeightM
}

type HotWaterSource struct {
	Type     HotWaterType `yaml:"type" json:"type" validate:"omitempty,oneof=termo calefon caldera"`
	Location string       `yaml:"location,omitempty" json:"location,omitempty"`
}

// Segment is a declared pipe run ("tramo"), used for water branches.
type Segment struct {
	ID       string     `yaml:"id" json:"id" validate:"required"`
	Name     string     `yaml:"name" json:"name"`
	LengthM  float64    `yaml:"length_m" json:"length_m" validate:"gte=0"`
	Fittings Counts     `yaml:"fittings,omitempty" json:"fittings,omitempty"`
	Feeds    FeedTarget `yaml:"feeds" json:"feeds" validate:"omitempty,oneof=ambiente tramo"`
	TargetID string     `yaml:"target_id" json:"target_id"`
}

// Label returns the segment name, falling back to its id.
func (s Segment) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// WaterNetwork holds the cold and hot branches in declaration order.
type WaterNetwork struct {
	Cold []Segment `yaml:"cold" json:"cold" validate:"dive"`
	Hot  []Segment `yaml:"hot" json:"hot" validate:"dive"`
}

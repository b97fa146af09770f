package spec

import "github.com/home265/bob-obras-sanitarias/pkg/geo"

// HeatingSystemType is the emitter family.
type HeatingSystemType string

const (
	RadiantFloor HeatingSystemType = "losa_radiante"
	Radiators    HeatingSystemType = "radiadores"
)

// HeatingSpec is the input for the heating network.
type HeatingSpec struct {
	System HeatingSystem `yaml:"system" json:"system"`
	Rooms  []HeatedRoom  `yaml:"rooms" json:"rooms" validate:"dive"`
	Slab   SlabDesign    `yaml:"slab,omitempty" json:"slab,omitempty"`
}

type HeatingSystem struct {
	Type          HeatingSystemType `yaml:"type" json:"type" validate:"required,oneof=losa_radiante radiadores"`
	DualBoiler    bool              `yaml:"dual_boiler,omitempty" json:"dual_boiler,omitempty"`
	Floors        int               `yaml:"floors" json:"floors" validate:"gte=1"`
	ClimateZoneID string            `yaml:"climate_zone" json:"climate_zone"`
}

// HeatedRoom carries the envelope of one room. Surface types are keys into
// the transmittance catalog.
type HeatedRoom struct {
	ID            string      `yaml:"id" json:"id" validate:"required"`
	Name          string      `yaml:"name" json:"name"`
	Floor         int         `yaml:"floor" json:"floor" validate:"gte=0"`
	LengthM       float64     `yaml:"length_m" json:"length_m" validate:"gte=0"`
	WidthM        float64     `yaml:"width_m" json:"width_m" validate:"gte=0"`
	HeightM       float64     `yaml:"height_m,omitempty" json:"height_m,omitempty" validate:"gte=0"`
	Outline       []geo.Point `yaml:"outline,omitempty" json:"outline,omitempty"`
	WallType      string      `yaml:"wall_type,omitempty" json:"wall_type,omitempty"`
	WallAreaM2    float64     `yaml:"wall_area_m2,omitempty" json:"wall_area_m2,omitempty" validate:"gte=0"`
	GlazingType   string      `yaml:"glazing_type,omitempty" json:"glazing_type,omitempty"`
	GlazingAreaM2 float64     `yaml:"glazing_area_m2,omitempty" json:"glazing_area_m2,omitempty" validate:"gte=0"`
	RoofType      string      `yaml:"roof_type,omitempty" json:"roof_type,omitempty"`
	RoofAreaM2    float64     `yaml:"roof_area_m2,omitempty" json:"roof_area_m2,omitempty" validate:"gte=0"`
	FloorType     string      `yaml:"floor_type,omitempty" json:"floor_type,omitempty"`
	FloorAreaM2   float64     `yaml:"floor_area_m2,omitempty" json:"floor_area_m2,omitempty" validate:"gte=0"`
}

// PlanAreaM2 returns the floor plan area: the outline polygon when one is
// given, otherwise length times width.
func (r HeatedRoom) PlanAreaM2() float64 {
	if len(r.Outline) >= 3 {
		return geo.NewPolygon(r.Outline...).Area()
	}
	return r.LengthM * r.WidthM
}

// PlanPerimeterM returns the perimeter of the same outline PlanAreaM2 uses.
func (r HeatedRoom) PlanPerimeterM() float64 {
	if len(r.Outline) >= 3 {
		return geo.NewPolygon(r.Outline...).Perimeter()
	}
	return geo.Rect(r.LengthM, r.WidthM).Perimeter()
}

// SlabDesign parameterises radiant floor loops.
type SlabDesign struct {
	LoopSpacingCM  float64 `yaml:"loop_spacing_cm" json:"loop_spacing_cm" validate:"gte=0"`
	MaxLoopLengthM float64 `yaml:"max_loop_length_m" json:"max_loop_length_m" validate:"gte=0"`
}

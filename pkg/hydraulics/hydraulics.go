// Package hydraulics holds the unit conversions and pipe-flow formulas
// shared by the network engines.
package hydraulics

import "math"

// hwExponent is the flow exponent of the Hazen-Williams formula.
const hwExponent = 1.852

// LPSToM3S converts liters per second to cubic meters per second.
func LPSToM3S(lps float64) float64 {
	return lps / 1000
}

// MMToM converts millimeters to meters.
func MMToM(mm float64) float64 {
	return mm / 1000
}

// CircularAreaM2 returns the cross-section of a pipe with inner diameter d (m).
func CircularAreaM2(d float64) float64 {
	r := d / 2
	return math.Pi * r * r
}

// VelocityMS returns the mean velocity for flow q (m³/s) through inner
// diameter d (m). Zero when d is not positive.
func VelocityMS(q, d float64) float64 {
	a := CircularAreaM2(d)
	if a <= 0 {
		return 0
	}
	return q / a
}

// HazenWilliamsLossM returns the friction loss in meters of head for a pipe
// of length l (m) carrying q (m³/s) with roughness c and inner diameter d (m):
//
//	h = 10.67 · L · Q^1.852 / (C^1.852 · D^4.87)
//
// Non-positive inputs give zero loss.
func HazenWilliamsLossM(l, q, c, d float64) float64 {
	if l <= 0 || q <= 0 || c <= 0 || d <= 0 {
		return 0
	}
	return 10.67 * l * math.Pow(q, hwExponent) / (math.Pow(c, hwExponent) * math.Pow(d, 4.87))
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// CeilDiv returns ceil(total/step) as a count, or 0 when either is not positive.
func CeilDiv(total, step float64) int {
	if total <= 0 || step <= 0 {
		return 0
	}
	// Guard against 12.000000001/4 style float noise.
	return int(math.Ceil(Round(total/step, 9)))
}

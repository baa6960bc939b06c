// Package units converts between the physical units used on the command line
// and the PDF point space used by the layout engine.
//
// All geometry in figpanel is computed in points (1/72 inch). Users specify
// page dimensions in millimetres and label sizes in points.
package units

// PointsPerMM is the conversion factor from millimetres to points.
const PointsPerMM = 2.83465

// PointsPerPixel converts CSS pixels (96 per inch) to points.
const PointsPerPixel = 0.75

// PointsPerInch is the number of points in one inch.
const PointsPerInch = 72.0

// MM converts millimetres to points.
func MM(mm float64) float64 { return mm * PointsPerMM }

// ToMM converts points to millimetres.
func ToMM(pt float64) float64 { return pt / PointsPerMM }

// Pixels converts points to device pixels at the given resolution.
func Pixels(pt float64, dpi int) float64 {
	return pt / PointsPerInch * float64(dpi)
}

// CSS converts a length with a CSS unit suffix to points.
// Unknown units are treated as user units (CSS pixels).
// The boolean result is false when the unit is relative (%, em, ex)
// and cannot be resolved without context.
func CSS(value float64, unit string) (float64, bool) {
	switch unit {
	case "", "px":
		return value * PointsPerPixel, true
	case "pt":
		return value, true
	case "pc":
		return value * 12, true
	case "mm":
		return value * PointsPerMM, true
	case "cm":
		return value * PointsPerMM * 10, true
	case "in":
		return value * PointsPerInch, true
	case "q", "Q":
		return value * PointsPerMM / 4, true
	default:
		return 0, false
	}
}

package geometry

import "fmt"

// Rect is an axis-aligned rectangle in page points. The origin is the top
// left corner of the page and y grows downwards.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// TrimTop removes a strip of height h from the top. The result never has a
// negative height.
func (r Rect) TrimTop(h float64) Rect {
	r.Y0 += h
	if r.Y0 > r.Y1 {
		r.Y0 = r.Y1
	}
	return r
}

// Scale multiplies every coordinate by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{X0: r.X0 * f, Y0: r.Y0 * f, X1: r.X1 * f, Y1: r.Y1 * f}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f, %.2f)", r.X0, r.Y0, r.X1, r.Y1)
}

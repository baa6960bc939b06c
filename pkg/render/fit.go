package render

import (
	"math"

	"github.com/matzehuels/figpanel/pkg/geometry"
)

// Fit scales a w×h source uniformly to fit inside box and centers it in the
// remaining space. A source without area collapses to the center of box.
func Fit(box geometry.Rect, w, h float64) geometry.Rect {
	if w <= 0 || h <= 0 || box.Empty() {
		cx, cy := box.CenterX(), box.CenterY()
		return geometry.Rect{X0: cx, Y0: cy, X1: cx, Y1: cy}
	}
	s := math.Min(box.Width()/w, box.Height()/h)
	fw, fh := w*s, h*s
	x0 := box.X0 + (box.Width()-fw)/2
	y0 := box.Y0 + (box.Height()-fh)/2
	return geometry.Rect{X0: x0, Y0: y0, X1: x0 + fw, Y1: y0 + fh}
}

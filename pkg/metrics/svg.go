package metrics

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/figpanel/pkg/units"
)

// ViewBox is the user coordinate system of an SVG document.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// String formats the viewBox attribute value.
func (v ViewBox) String() string {
	return fmt.Sprintf("%g %g %g %g", v.MinX, v.MinY, v.Width, v.Height)
}

var (
	errNotSVG = errors.New("root element is not <svg>")
	errNoSize = errors.New("svg has neither width/height nor viewBox")
)

var lengthRe = regexp.MustCompile(`^\s*([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*([a-zA-Z%]*)\s*$`)

// ParseLength converts an SVG length attribute to points.
// Relative units (%, em) are reported as not ok.
func ParseLength(s string) (float64, bool) {
	m := lengthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	pt, ok := units.CSS(v, m[2])
	if !ok || pt <= 0 {
		return 0, false
	}
	return pt, true
}

// ParseViewBox parses "minx miny width height" separated by spaces or commas.
func ParseViewBox(s string) (ViewBox, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, false
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, false
		}
		vals[i] = v
	}
	vb := ViewBox{vals[0], vals[1], vals[2], vals[3]}
	if vb.Width <= 0 || vb.Height <= 0 {
		return ViewBox{}, false
	}
	return vb, true
}

// SVGSize returns the rendered size of an <svg> root element in points.
// Missing width or height is derived from the viewBox, keeping its aspect ratio.
func SVGSize(root *etree.Element) (float64, float64, error) {
	if root == nil || root.Tag != "svg" {
		return 0, 0, errNotSVG
	}

	w, wok := ParseLength(root.SelectAttrValue("width", ""))
	h, hok := ParseLength(root.SelectAttrValue("height", ""))
	if wok && hok {
		return w, h, nil
	}

	vb, vbok := ParseViewBox(root.SelectAttrValue("viewBox", ""))
	if !vbok {
		return 0, 0, errNoSize
	}
	switch {
	case wok:
		return w, w * vb.Height / vb.Width, nil
	case hok:
		return h * vb.Width / vb.Height, h, nil
	default:
		return vb.Width * units.PointsPerPixel, vb.Height * units.PointsPerPixel, nil
	}
}

func probeSVG(path string) (float64, float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return 0, 0, err
	}
	return SVGSize(doc.Root())
}

// Package geometry turns a layout structure and per-panel aspect ratios into
// page coordinates.
//
// Each row divides the usable width evenly among its panels. A row is as
// tall as its tallest panel at that width plus a label strip of
// [Config.LabelSize] + [LabelPadding] points. When the page height is fixed,
// every row is scaled by the same factor so the rows, spacing and margins add
// up to exactly the page height; otherwise the page grows to fit.
//
// All values are in points. Rectangles are reported with the origin at the
// top left corner of the page.
//
//	page, err := geometry.Compute(structure, metrics, geometry.Config{
//	    PageWidth: units.MM(180),
//	    Margin:    units.MM(5),
//	    Spacing:   units.MM(3),
//	    LabelSize: 12,
//	})
package geometry

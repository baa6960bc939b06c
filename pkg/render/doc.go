// Package render draws a computed page onto an output document.
//
// # Overview
//
// Rendering takes a [geometry.Page] and the sources it refers to and produces
// one output file. It provides:
//
//   - Output kind selection from the destination path ([KindFromPath])
//   - Source loading for PDF, SVG and raster inputs ([LoadSource])
//   - Uniform scale-and-center placement ([Fit])
//   - Panel labels ([LabelFor], [Letters])
//   - Canvases for SVG, PDF and raster output ([NewCanvas])
//
// # Canvases
//
// [SVGCanvas] composes one SVG document in which every source is embedded
// as a nested <svg> element. Element ids are prefixed per panel so that
// gradients, clip paths and markers from different sources cannot collide.
// [PDFCanvas] builds the same SVG and converts it with rsvg-convert.
// [RasterCanvas] draws directly into an RGBA image at the requested DPI and
// encodes it as PNG, JPEG or TIFF.
//
//	c, err := render.NewCanvas(render.KindFromPath("fig.png"), page.Width, page.Height, render.Options{DPI: 300})
//	src, err := render.LoadSource(ctx, "a.pdf")
//	err = c.Place(src, render.Fit(rect, src.Width, src.Height))
//	c.Label("A", rect.X0, rect.Y0+12, 12)
//	err = c.Encode(ctx, w)
//
// # External Tools
//
// PDF output requires rsvg-convert (librsvg). Drawing a PDF source requires
// pdftocairo (poppler), which converts its first page to SVG. A missing tool
// is reported as an UNSUPPORTED error.
//
// [geometry.Page]: github.com/matzehuels/figpanel/pkg/geometry.Page
package render

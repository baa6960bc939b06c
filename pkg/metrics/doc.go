// Package metrics reads the page size of each figure that goes into a panel.
//
// # Overview
//
// The layout engine only needs three numbers per input: width, height and
// aspect ratio of the first page, in points. [Extractor.Extract] reads them
// for an ordered list of files and returns one [Result] per file, in the
// same order.
//
// # Supported Sources
//
//   - PDF: first page CropBox (MediaBox when absent), rotation applied
//   - SVG: root width/height with CSS units, falling back to the viewBox
//   - Raster: PNG, JPEG, GIF, TIFF, WebP and BMP at 96 pixels per inch
//
// The kind is sniffed from the file content and falls back to the file
// extension.
//
// # Fallback Metrics
//
// A file that cannot be read never aborts a run. Its [Result] carries the
// read error and a 100×100 square [Fallback] metric, so the geometry engine
// treats every input uniformly while the caller reports a warning:
//
//	results, err := metrics.NewExtractor(nil, nil, logger).Extract(ctx, paths)
//	for _, r := range results {
//	    if r.IsFallback() {
//	        logger.Warn(r.Warning())
//	    }
//	}
package metrics

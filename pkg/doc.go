// Package pkg provides the libraries behind figpanel, a tool that composes
// single-page figures into one labelled multi-panel page.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [metrics] - Measure each source (PDF, SVG, raster) in points
//  2. [layout] - Parse the layout descriptor into rows of input indices
//  3. [geometry] - Compute row heights and panel rectangles
//  4. [render] - Draw the page as SVG, PDF or a raster image
//  5. [pipeline] - Orchestration (measure → parse → compute → render → write)
//
// Supporting packages: [cache] stores page metrics across runs, [config]
// reads TOML defaults, [errors] carries machine-readable error codes,
// [observability] exposes hooks, [units] converts lengths and [server]
// exposes layout computation over HTTP.
//
// # Data Flow
//
//	input files + descriptor
//	         ↓
//	    [metrics] package (width, height, aspect ratio; fallback on failure)
//	         ↓
//	    [layout] package (grid, row-count or simple form → [][]int)
//	         ↓
//	    [geometry] package (page size, scale, one rectangle per panel)
//	         ↓
//	    [render] package (SVG/PDF/PNG/JPEG/TIFF bytes)
//
// # Quick Start
//
//	opts := pipeline.DefaultOptions()
//	opts.Inputs = []string{"a.pdf", "b.svg", "c.png"}
//	opts.Layout = "2,1"
//	opts.Output = "figure.pdf"
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, opts)
//
// [metrics]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/metrics
// [layout]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/geometry
// [render]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/observability
// [units]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/units
// [server]: https://pkg.go.dev/github.com/matzehuels/figpanel/pkg/server
package pkg

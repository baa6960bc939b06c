// Package pipeline provides the composition pipeline for figpanel.
//
// This package implements the complete extract → layout → render pipeline
// used by the CLI and the HTTP server. Centralizing it keeps option
// defaults, validation and warnings identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Extract: Measure the first page of every input (fallbacks on failure)
//  2. Parse: Turn the layout descriptor into rows of input indices
//  3. Compute: Derive row heights and panel rectangles
//  4. Render: Draw sources and labels, then write the output once
//
// [Runner.Plan] runs the first three stages only, which is all the layout
// dry run and the HTTP API need.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Layout = "2,1"
//	opts.Inputs = []string{"a.pdf", "b.svg", "c.png"}
//	opts.Output = "figure.pdf"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    fmt.Println("warning:", w)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
	"github.com/matzehuels/figpanel/pkg/layout"
	"github.com/matzehuels/figpanel/pkg/metrics"
	"github.com/matzehuels/figpanel/pkg/render"
	"github.com/matzehuels/figpanel/pkg/units"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, config file and server
// =============================================================================

const (
	// DefaultPageWidth is the page width in millimetres.
	DefaultPageWidth = 180.0

	// DefaultMargin is the uniform page margin in millimetres.
	DefaultMargin = 5.0

	// DefaultSpacing is the gap between panels and rows in millimetres.
	DefaultSpacing = 3.0

	// DefaultLabelSize is the label font size in points.
	DefaultLabelSize = 14.0

	// DefaultDPI is the resolution of raster output.
	DefaultDPI = render.DefaultDPI

	// DefaultJPEGQuality is the JPEG encoder quality.
	DefaultJPEGQuality = render.DefaultJPEGQuality
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one composition.
// Lengths are in millimetres except LabelSize, which is in points.
//
// Margin, Spacing and LabelSize accept zero, so start from [DefaultOptions]
// rather than a zero value.
type Options struct {
	Inputs []string `json:"inputs"`
	Output string   `json:"output,omitempty"`
	Layout string   `json:"layout"`

	PageWidth  float64  `json:"page_width"`
	PageHeight float64  `json:"page_height,omitempty"` // 0 = auto
	Margin     float64  `json:"margin"`
	Spacing    float64  `json:"spacing"`
	LabelSize  float64  `json:"label_size"`
	Labels     []string `json:"labels,omitempty"`

	// Kind is derived from Output when empty.
	Kind        render.Kind `json:"kind,omitempty"`
	DPI         int         `json:"dpi,omitempty"`
	JPEGQuality int         `json:"jpeg_quality,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options populated with the built-in defaults.
func DefaultOptions() Options {
	return Options{
		PageWidth:   DefaultPageWidth,
		Margin:      DefaultMargin,
		Spacing:     DefaultSpacing,
		LabelSize:   DefaultLabelSize,
		DPI:         DefaultDPI,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// Plan contains the outputs of the extract, parse and compute stages.
type Plan struct {
	Form      layout.Form
	Structure layout.Structure
	Metrics   []metrics.Result
	Page      geometry.Page
	Warnings  []string
	Stats     Stats
}

// Result contains the outputs of a full pipeline run.
type Result struct {
	*Plan

	// Output is the path that was written.
	Output string

	// Kind is the output document kind.
	Kind render.Kind

	// Size is the number of bytes written.
	Size int
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Inputs       int
	Rows         int
	Fallbacks    int
	Placeholders int
	ExtractTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan checks the fields needed to compute a layout.
func (o *Options) ValidateForPlan() error {
	if len(o.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one input is required")
	}
	for _, in := range o.Inputs {
		if err := errors.ValidatePath(in); err != nil {
			return err
		}
	}
	checks := []error{
		errors.ValidatePositive("page width", o.PageWidth),
		errors.ValidateNonNegative("page height", o.PageHeight),
		errors.ValidateNonNegative("margin", o.Margin),
		errors.ValidateNonNegative("spacing", o.Spacing),
		errors.ValidateNonNegative("label size", o.LabelSize),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if o.PageWidth <= 2*o.Margin {
		return errors.New(errors.ErrCodeInvalidInput, "page width %g mm leaves no room inside %g mm margins", o.PageWidth, o.Margin)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks the fields needed to draw and write the page.
func (o *Options) ValidateForRender() error {
	if err := errors.ValidatePath(o.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "output is required")
	}
	if o.Kind == "" {
		o.Kind = render.KindFromPath(o.Output)
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if o.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", o.DPI)
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be in 1..100, got %d", o.JPEGQuality)
	}
	return nil
}

// ValidateKind checks that a render kind is supported.
func ValidateKind(k render.Kind) error {
	switch k {
	case render.KindPDF, render.KindSVG, render.KindPNG, render.KindJPEG, render.KindTIFF:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid kind: %q (must be one of: pdf, svg, png, jpeg, tiff)", k)
}

// GeometryConfig converts the page options to points.
func (o *Options) GeometryConfig() geometry.Config {
	return geometry.Config{
		PageWidth:  units.MM(o.PageWidth),
		PageHeight: units.MM(o.PageHeight),
		Margin:     units.MM(o.Margin),
		Spacing:    units.MM(o.Spacing),
		LabelSize:  o.LabelSize,
	}
}

// RenderOptions returns the canvas options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{DPI: o.DPI, JPEGQuality: o.JPEGQuality}
}

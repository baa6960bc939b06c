package render

import (
	"context"
	"io"

	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/geometry"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 300

// DefaultJPEGQuality is the JPEG quality used when none is configured.
const DefaultJPEGQuality = 95

// Canvas is a page being drawn. Coordinates are in points with the origin at
// the top left corner.
type Canvas interface {
	// Place draws src scaled to exactly fill dest.
	Place(src *Source, dest geometry.Rect) error
	// Placeholder draws a visible frame for a source that could not be loaded.
	Placeholder(dest geometry.Rect)
	// Label draws bold text with its baseline starting at (x, y).
	Label(text string, x, y, size float64)
	// Encode writes the finished document.
	Encode(ctx context.Context, w io.Writer) error
}

// Options configures canvas creation.
type Options struct {
	DPI         int
	JPEGQuality int
}

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	return o
}

// NewCanvas creates a width×height point canvas for the given output kind.
func NewCanvas(kind Kind, width, height float64, opts Options) (Canvas, error) {
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas width must be positive, got %g", width)
	}
	if height < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas height must not be negative, got %g", height)
	}
	opts = opts.withDefaults()

	switch kind {
	case KindSVG:
		return NewSVGCanvas(width, height), nil
	case KindPDF:
		return NewPDFCanvas(width, height), nil
	case KindPNG, KindJPEG, KindTIFF:
		return NewRasterCanvas(kind, width, height, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output kind %q", kind)
	}
}

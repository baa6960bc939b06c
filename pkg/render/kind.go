package render

import (
	"path/filepath"
	"strings"
)

// Kind is an output document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindSVG  Kind = "svg"
	KindPNG  Kind = "png"
	KindJPEG Kind = "jpeg"
	KindTIFF Kind = "tiff"
)

// KindFromPath selects the output kind from the destination's extension.
// Unrecognized extensions produce PDF.
func KindFromPath(path string) Kind {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return KindPNG
	case "jpg", "jpeg":
		return KindJPEG
	case "tif", "tiff":
		return KindTIFF
	case "svg":
		return KindSVG
	default:
		return KindPDF
	}
}

// IsRaster reports whether the kind is rendered at a pixel resolution.
func (k Kind) IsRaster() bool {
	return k == KindPNG || k == KindJPEG || k == KindTIFF
}

func (k Kind) String() string { return string(k) }

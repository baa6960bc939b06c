package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Kind classifies a source document.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindSVG
	KindRaster
)

// sniffLen is how many leading bytes are inspected to detect the kind.
const sniffLen = 1024

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindPDF:     "pdf",
	KindSVG:     "svg",
	KindRaster:  "raster",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	*k = KindUnknown
	return nil
}

// DetectFile reads the head of path and classifies it.
func DetectFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, err
	}
	return Detect(path, head[:n]), nil
}

// Detect classifies a source from its leading bytes, falling back to the
// file extension when the content is not recognized.
func Detect(path string, head []byte) Kind {
	switch {
	case filetype.Is(head, "pdf"):
		return KindPDF
	case filetype.IsImage(head):
		return KindRaster
	case looksLikeSVG(head):
		return KindSVG
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF
	case ".svg":
		return KindSVG
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".webp", ".bmp":
		return KindRaster
	}
	return KindUnknown
}

func looksLikeSVG(head []byte) bool {
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

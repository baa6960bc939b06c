package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/tsawler/tabula/reader"
)

var errNoPages = errors.New("document has no pages")

// probePDF returns the visible size of the first page. The CropBox is used
// when present; a page rotated by 90 or 270 degrees swaps width and height.
func probePDF(path string) (float64, float64, error) {
	r, err := reader.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	n, err := r.PageCount()
	if err != nil {
		return 0, 0, fmt.Errorf("count pages: %w", err)
	}
	if n < 1 {
		return 0, 0, errNoPages
	}

	page, err := r.GetPage(0)
	if err != nil {
		return 0, 0, fmt.Errorf("first page: %w", err)
	}
	box, err := page.CropBox()
	if err != nil {
		return 0, 0, fmt.Errorf("page box: %w", err)
	}

	w := math.Abs(box[2] - box[0])
	h := math.Abs(box[3] - box[1])
	if page.Rotate()%180 != 0 {
		w, h = h, w
	}
	return w, h, nil
}

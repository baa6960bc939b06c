package layout

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Form identifies which descriptor grammar matched.
type Form int

const (
	FormSimple    Form = iota // single row: "3", "ABC"
	FormGrid                  // cols x rows: "2x2"
	FormRowCounts             // per-row counts: "2,1", "AB-C"
)

// String returns the lower-case name of the form.
func (f Form) String() string {
	switch f {
	case FormGrid:
		return "grid"
	case FormRowCounts:
		return "rows"
	default:
		return "simple"
	}
}

// Structure is an ordered list of rows, each an ordered list of input indices.
type Structure [][]int

// Len returns the total number of placed indices.
func (s Structure) Len() int {
	n := 0
	for _, row := range s {
		n += len(row)
	}
	return n
}

// String renders the structure as nested brackets, e.g. "[[0 1] [2]]".
func (s Structure) String() string {
	return fmt.Sprint([][]int(s))
}

// Validate reports whether s is a partition of 0..n-1 with no empty rows.
func (s Structure) Validate(n int) error {
	seen := make([]bool, n)
	for r, row := range s {
		if len(row) == 0 {
			return fmt.Errorf("row %d is empty", r)
		}
		for _, idx := range row {
			if idx < 0 || idx >= n {
				return fmt.Errorf("row %d: index %d out of range [0,%d)", r, idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("row %d: index %d placed twice", r, idx)
			}
			seen[idx] = true
		}
	}
	for idx, ok := range seen {
		if !ok {
			return fmt.Errorf("index %d not placed", idx)
		}
	}
	return nil
}

// Detect returns the form a descriptor will be parsed as.
func Detect(descriptor string) Form {
	switch {
	case strings.ContainsAny(descriptor, "xX"):
		return FormGrid
	case strings.ContainsAny(descriptor, ",-"):
		return FormRowCounts
	default:
		return FormSimple
	}
}

// Parse converts a descriptor into a Structure covering exactly the indices 0..n-1.
func Parse(descriptor string, n int) Structure {
	if n < 0 {
		n = 0
	}

	var s Structure
	switch Detect(descriptor) {
	case FormGrid:
		s = parseGrid(descriptor, n)
	case FormRowCounts:
		s = parseRowCounts(descriptor, n)
	default:
		s = parseSimple(descriptor, n)
	}
	return recoverUnplaced(s, n)
}

// parseGrid handles "<cols>x<rows>". Anything other than two integers yields no rows.
func parseGrid(descriptor string, n int) Structure {
	parts := strings.Split(strings.ToLower(descriptor), "x")
	if len(parts) != 2 {
		return nil
	}
	cols, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	rows, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}

	var s Structure
	idx := 0
	for r := 0; r < rows && idx < n; r++ {
		var row []int
		for c := 0; c < cols && idx < n; c++ {
			row = append(row, idx)
			idx++
		}
		if len(row) > 0 {
			s = append(s, row)
		}
	}
	return s
}

// parseRowCounts handles comma- or dash-separated per-row counts.
func parseRowCounts(descriptor string, n int) Structure {
	sep := "-"
	if strings.Contains(descriptor, ",") {
		sep = ","
	}

	tokens := strings.Split(descriptor, sep)
	counts := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		count, err := tokenCount(tok)
		if err != nil {
			return nil
		}
		counts = append(counts, count)
	}

	var s Structure
	idx := 0
	for _, count := range counts {
		var row []int
		for i := 0; i < count && idx < n; i++ {
			row = append(row, idx)
			idx++
		}
		if len(row) > 0 {
			s = append(s, row)
		}
	}
	return s
}

// parseSimple handles a single-row descriptor.
func parseSimple(descriptor string, n int) Structure {
	count, err := tokenCount(descriptor)
	if err != nil {
		return nil
	}
	count = min(count, n)
	if count <= 0 {
		return nil
	}
	row := make([]int, count)
	for i := range row {
		row[i] = i
	}
	return Structure{row}
}

// tokenCount returns the numeric value of an all-digit token, or its rune
// length otherwise.
func tokenCount(tok string) (int, error) {
	if isDigits(tok) {
		return strconv.Atoi(tok)
	}
	return utf8.RuneCountInString(tok), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// recoverUnplaced appends every index in 0..n-1 missing from s as one final row.
func recoverUnplaced(s Structure, n int) Structure {
	placed := make([]bool, n)
	for _, row := range s {
		for _, idx := range row {
			if idx >= 0 && idx < n {
				placed[idx] = true
			}
		}
	}

	var remaining []int
	for idx, ok := range placed {
		if !ok {
			remaining = append(remaining, idx)
		}
	}
	if len(remaining) > 0 {
		s = append(s, remaining)
	}
	return s
}

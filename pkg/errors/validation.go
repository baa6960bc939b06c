package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a source or destination file path.
//
// Validation rules:
//   - Path cannot be empty or whitespace only
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters: %q", path)
		}
	}

	return nil
}

// ValidatePositive checks that a named dimension is a finite number greater than zero.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a named dimension is a finite number not below zero.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
	}
	return nil
}

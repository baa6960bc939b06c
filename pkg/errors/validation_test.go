package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "figures/a.pdf", false},
		{"absolute", "/tmp/panel.svg", false},
		{"with spaces", "my figure.png", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		v           float64
		positiveErr bool
		nonNegErr   bool
	}{
		{1, false, false},
		{0.5, false, false},
		{0, true, false},
		{-1, true, true},
		{math.NaN(), true, true},
		{math.Inf(1), true, true},
	}

	for _, tt := range tests {
		if err := ValidatePositive("width", tt.v); (err != nil) != tt.positiveErr {
			t.Errorf("ValidatePositive(%g) error = %v, wantErr %v", tt.v, err, tt.positiveErr)
		}
		if err := ValidateNonNegative("margin", tt.v); (err != nil) != tt.nonNegErr {
			t.Errorf("ValidateNonNegative(%g) error = %v, wantErr %v", tt.v, err, tt.nonNegErr)
		}
	}
}

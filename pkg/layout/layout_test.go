package layout

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		n          int
		want       Structure
	}{
		{"grid 2x2 full", "2x2", 4, Structure{{0, 1}, {2, 3}}},
		{"grid 2x2 short", "2x2", 3, Structure{{0, 1}, {2}}},
		{"grid uppercase", "3X1", 3, Structure{{0, 1, 2}}},
		{"grid too small recovers", "1x1", 3, Structure{{0}, {1, 2}}},
		{"grid bad cols", "ax2", 2, Structure{{0, 1}}},
		{"grid three parts", "2x2x2", 3, Structure{{0, 1, 2}}},
		{"grid spaces", " 2 x 1 ", 2, Structure{{0, 1}}},

		{"counts comma", "2,1", 3, Structure{{0, 1}, {2}}},
		{"counts dash", "2-1", 3, Structure{{0, 1}, {2}}},
		{"letters dash", "AB-C", 3, Structure{{0, 1}, {2}}},
		{"letters ignore identity", "XY-Z", 3, Structure{{0, 1}, {2}}},
		{"column", "1,1,1", 3, Structure{{0}, {1}, {2}}},
		{"counts exhaust inputs", "2,2,2", 3, Structure{{0, 1}, {2}}},
		{"counts fewer than inputs", "1,1", 4, Structure{{0}, {1}, {2, 3}}},
		{"empty token skipped", "2,,1", 3, Structure{{0, 1}, {2}}},
		{"comma wins over dash", "A-B,C", 4, Structure{{0, 1, 2}, {3}}},
		{"overflowing count", "99999999999999999999,1", 2, Structure{{0, 1}}},

		{"simple digits", "3", 5, Structure{{0, 1, 2}, {3, 4}}},
		{"simple letters", "ABC", 3, Structure{{0, 1, 2}}},
		{"simple capped", "5", 2, Structure{{0, 1}}},
		{"simple zero", "0", 2, Structure{{0, 1}}},
		{"simple empty", "", 2, Structure{{0, 1}}},
		{"simple unicode", "αβ", 3, Structure{{0, 1}, {2}}},

		{"no inputs", "2x2", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.descriptor, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q, %d) = %v, want %v", tt.descriptor, tt.n, got, tt.want)
			}
		})
	}
}

func TestParseCoversEveryIndex(t *testing.T) {
	descriptors := []string{
		"", "1", "3", "12", "ABC", "2x2", "3x3", "0x0", "x", "2,1", "AB-C",
		"1-1-1-1-1", ",,,", "---", "bad,input", "9x", "x9", "2x-1", "-", "🙂🙂",
	}

	for _, d := range descriptors {
		for n := 0; n <= 9; n++ {
			s := Parse(d, n)
			if err := s.Validate(n); err != nil {
				t.Errorf("Parse(%q, %d) = %v: %v", d, n, s, err)
			}
			if s.Len() != n {
				t.Errorf("Parse(%q, %d).Len() = %d, want %d", d, n, s.Len(), n)
			}
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		descriptor string
		want       Form
	}{
		{"2x2", FormGrid},
		{"2X2", FormGrid},
		{"AXB", FormGrid},
		{"2,1", FormRowCounts},
		{"AB-C", FormRowCounts},
		{"3", FormSimple},
		{"ABC", FormSimple},
	}

	for _, tt := range tests {
		if got := Detect(tt.descriptor); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.descriptor, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Structure
		n       int
		wantErr bool
	}{
		{"valid", Structure{{0, 1}, {2}}, 3, false},
		{"empty structure, no inputs", nil, 0, false},
		{"empty row", Structure{{0, 1}, {}}, 2, true},
		{"out of range", Structure{{0, 3}}, 2, true},
		{"duplicate", Structure{{0, 0}}, 2, true},
		{"missing", Structure{{0}}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStructureString(t *testing.T) {
	if got := (Structure{{0, 1}, {2}}).String(); got != "[[0 1] [2]]" {
		t.Errorf("String() = %q", got)
	}
}

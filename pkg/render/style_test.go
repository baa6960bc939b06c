package render

import "testing"

func TestScopeStylesheet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"class", ".cls-1 { fill: #fff }", ".s .cls-1{fill:#fff;}"},
		{"id", "#dot{fill:red}", ".s #p-dot{fill:red;}"},
		{"selector list", "#a, g > .b {stroke:none}", ".s #p-a,.s g>.b{stroke:none;}"},
		{"function comma", ":is(.a, .b) {fill:red}", ".s :is(.a,.b){fill:red;}"},
		{"url ref", ".x{fill:url(#grad)}", ".s .x{fill:url(#p-grad);}"},
		{"comment dropped", "/* c */ .x{fill:red}", ".s .x{fill:red;}"},
		{"media", "@media print { .x { fill: red } }", "@media print{.s .x{fill:red;}}"},
		{"keyframes", "@keyframes spin { from { opacity: 0 } to { opacity: 1 } }", "@keyframes spin{from{opacity:0;}to{opacity:1;}}"},
		{"at rule", "@import url(a.css);", "@import url(a.css);"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeStylesheet(tt.in, "p-", "s"); got != tt.want {
				t.Errorf("scopeStylesheet(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

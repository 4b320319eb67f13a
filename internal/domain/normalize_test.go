package domain

import "testing"

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  stop  ", want: "stop"},
		{name: "lowercase", input: "No Parking", want: "no parking"},
		{name: "compress spaces", input: "speed   limit", want: "speed limit"},
		{name: "tabs", input: "\tgive\t way ", want: "give way"},
		{name: "devanagari preserved", input: " रुकें ", want: "रुकें"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"stop", "stop"},
		{"100%", `100\%`},
		{"no_entry", `no\_entry`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.input); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "General Analysis", limit: 0, expect: ""},
		{name: "fits", input: "Research", limit: 10, expect: "Research"},
		{name: "cut with ellipsis", input: "Leadership & Entrepreneurship", limit: 10, expect: "Leadership..."},
		{name: "trimmed before cut", input: "\n  Experience  \n", limit: 4, expect: "Expe..."},
		{name: "counts runes", input: "Ада Лавлейс", limit: 3, expect: "Ада..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

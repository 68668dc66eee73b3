package util

import "testing"

func TestCleanAmount(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"$1,200.00", 1200},
		{"$85.50", 85.5},
		{"1000", 1000},
		{"  $2,500 ", 2500},
		{"-150.25", -150.25},
		{"", 0},
		{"N/A", 0},
		{"$", 0},
	}
	for _, tc := range cases {
		if got := CleanAmount(tc.input); got != tc.want {
			t.Fatalf("CleanAmount(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

package rules

import "testing"

func TestStandardizeDistrict(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"LHS", "Lawrence"},
		{"Lawrence High School", "Lawrence"},
		{"lawrence high", "Lawrence"},
		{"WSHS", "West Springfield"},
		{"WSHS- J/G.S.", "West Springfield"},
		{"Springfield", "West Springfield"},
		{"Raynahm", "Bridgewater-Raynham"},
		{"Donnovan", "Randolph"},
		{"Blue Hils", "Blue Hills"},
		{"Admin", "Lilypad"},
		{"Lilypad/Greenfield", "Greenfield"},
		{"Bentley School", "Salem"},
		{"Milton", "Milton"},
		{"Acton-Boxborough", "Acton-Boxborough"},
	}
	for _, tc := range cases {
		got := StandardizeDistrict(tc.input)
		if got == nil {
			t.Fatalf("StandardizeDistrict(%q) = nil, want %q", tc.input, tc.want)
		}
		if *got != tc.want {
			t.Fatalf("StandardizeDistrict(%q) = %q, want %q", tc.input, *got, tc.want)
		}
	}
}

func TestStandardizeDistrictRejects(t *testing.T) {
	for _, input := range []string{
		"", "caseload organization", "Hogwarts", "9:00 - 10:00", "milton",
	} {
		if got := StandardizeDistrict(input); got != nil {
			t.Fatalf("StandardizeDistrict(%q) = %q, want nil", input, *got)
		}
	}
}

func TestStandardizeDistrictAliasOrder(t *testing.T) {
	// Combined site labels resolve to the school district, not to the internal
	// Lilypad bucket.
	got := StandardizeDistrict("Lilypad, Greenfield")
	if got == nil || *got != "Greenfield" {
		t.Fatalf("got %v, want Greenfield", got)
	}
}

func TestCustomerDistrict(t *testing.T) {
	if got := CustomerDistrict("Lawrence Public Schools"); got != "Lawrence" {
		t.Fatalf("got %q", got)
	}
	if got := CustomerDistrict("Narnia Academy"); got != "Narnia Academy" {
		t.Fatalf("unmapped customer rewritten to %q", got)
	}
}

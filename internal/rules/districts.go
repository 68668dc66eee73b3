package rules

import (
	"strings"

	"github.com/joelilypad/analysis/internal/util"
)

type aliasRule struct {
	Alias    string
	District string
}

// districtAliases is matched top to bottom by lowercase substring; order
// matters because some aliases are substrings of others.
var districtAliases = []aliasRule{
	{"LHS", "Lawrence"}, {"Lawrence High", "Lawrence"}, {"Lawrence High School", "Lawrence"},
	{"Kipp", "KIPP"},
	{"Waltham High", "Waltham"}, {"Waltham Elementary", "Waltham"},
	{"WSHS", "West Springfield"}, {"W. Springfield", "West Springfield"},
	{"West Springfield High School", "West Springfield"},
	{"Bridgewater", "Bridgewater-Raynham"}, {"BMS", "Bridgewater-Raynham"},
	{"Raynahm", "Bridgewater-Raynham"}, {"Raynham", "Bridgewater-Raynham"},
	{"BRHS", "Bridgewater-Raynham"}, {"BRRHS", "Bridgewater-Raynham"},
	{"Bridgewater Middle", "Bridgewater-Raynham"},
	{"Randolph Middle", "Randolph"}, {"Randolph Middle School", "Randolph"}, {"Randolph High", "Randolph"},
	{"Donovan Elementary", "Randolph"}, {"Donovan", "Randolph"}, {"Donnovan", "Randolph"}, {"Donovan School", "Randolph"},
	{"Wareham Elementary", "Wareham"}, {"WES", "Wareham"},
	{"AMS", "Ashland"}, {"AHS", "Ashland"}, {"Ashland Middle", "Ashland"},
	{"Central Elementary", "Tewksbury"}, {"Central Elementary School", "Tewksbury"},
	{"Center School", "Tewksbury"}, {"TWyMS", "Tewksbury"},
	{"Milton HS", "Milton"}, {"Milton High School", "Milton"},
	{"Blue hills", "Blue Hills"}, {"Blue Hils", "Blue Hills"}, {"BlueHills", "Blue Hills"},
	{"Admin", "Lilypad"}, {"LL", "Lilypad"},
	{"Lilypad, Greenfield", "Greenfield"}, {"Lilypad/Greenfield", "Greenfield"}, {"Lilypad/Holbrook", "Holbrook"},
	{"salem", "Salem"}, {"Salem Saltonstall", "Salem"}, {"Saltonstall Elementary", "Salem"},
	{"Bentley School", "Salem"}, {"Bentley Elementary", "Salem"},
	{"HMHS", "Holbrook"}, {"GMS", "Greenfield"}, {"Green Field", "Greenfield"},
	{"W.Springfield", "West Springfield"}, {"West Springfield HS", "West Springfield"},
	{"WSHS- J/G.S.", "West Springfield"},
	{"Center Elementary", "Tewksbury"},
	{"Springfield", "West Springfield"},
}

var approvedDistricts = map[string]struct{}{
	"Ashland": {}, "Blue Hills": {}, "Bridgewater-Raynham": {}, "Easthampton": {},
	"Greenfield": {}, "Holbrook": {}, "KIPP": {}, "Lawrence": {}, "Lynnfield": {},
	"Mansfield": {}, "Milton": {}, "Randolph": {}, "Salem": {}, "Tewksbury": {},
	"Waltham": {}, "Wareham": {}, "Acton-Boxborough": {}, "West Springfield": {},
	"Chelsea": {}, "New Heights": {}, "Lilypad": {},
}

// StandardizeDistrict maps a raw site candidate onto the canonical district
// vocabulary. Unrecognized values normalize to nil, not to themselves; a
// candidate that is itself a leftover time-range fragment is rejected outright.
func StandardizeDistrict(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" || util.LooksLikeTimeRange(raw) {
		return nil
	}
	lowered := strings.ToLower(raw)
	for _, rule := range districtAliases {
		if strings.Contains(lowered, strings.ToLower(rule.Alias)) {
			return util.StringPtr(rule.District)
		}
	}
	if _, ok := approvedDistricts[raw]; ok {
		return util.StringPtr(raw)
	}
	return nil
}

// billingCustomerDistricts maps QuickBooks customer names verbatim onto the
// same canonical short names the timesheet side uses.
var billingCustomerDistricts = map[string]string{
	"Ashland Public Schools":                       "Ashland",
	"Blue Hills Regional Technical School":         "Blue Hills",
	"Bridgewater-Raynham Regional School District": "Bridgewater-Raynham",
	"Chelsea Public Schools":                       "Chelsea",
	"Greenfield Public Schools":                    "Greenfield",
	"Holbrook Public Schools":                      "Holbrook",
	"KIPP Academy Lynn Charter School":             "KIPP",
	"Lawrence Public Schools":                      "Lawrence",
	"Lynnfield Public Schools":                     "Lynnfield",
	"Mansfield Public Schools":                     "Mansfield",
	"Milton Public Schools":                        "Milton",
	"Randolph Public Schools":                      "Randolph",
	"Salem Public Schools":                         "Salem",
	"Tewksbury Public Schools":                     "Tewksbury",
	"Waltham Public Schools":                       "Waltham",
	"Wareham Public Schools":                       "Wareham",
	"West Springfield Public Schools":              "West Springfield",
}

// CustomerDistrict resolves an invoice customer to its canonical district.
// Unmapped customers keep their raw name: invoices are the authoritative record
// of which sites exist, so nothing is dropped here.
func CustomerDistrict(customer string) string {
	if district, ok := billingCustomerDistricts[customer]; ok {
		return district
	}
	return customer
}

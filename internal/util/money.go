package util

import (
	"strconv"
	"strings"
)

// CleanAmount coerces currency-formatted text ("$1,234.50") to a float,
// defaulting to zero on anything unparseable rather than failing the row.
func CleanAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

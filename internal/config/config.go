package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries paths plus the immutable rate and fee tables the report
// helpers consume. The tables are loaded once here and passed down explicitly
// so tests and per-tenant deployments can swap them without touching globals.
type Config struct {
	DBPath    string
	OutputDir string

	DefaultHourlyRate float64
	RateByFirstName   map[string]float64
	FeeByDistrict     map[string]float64
}

var defaultRates = map[string]float64{
	"Nancy": 95, "Kathleen": 95, "David": 95, "Melissa": 95, "Emily": 95, "Tarik": 95,
	"Angela": 70, "Caroline": 70, "Julie": 70, "Lexi": 70, "Shirley": 70,
}

var defaultFees = map[string]float64{
	"Lawrence": 1000, "Greenfield": 900, "Ashland": 1000, "Blue Hills": 900,
	"Bridgewater-Raynham": 1875, "Easthampton": 1875, "Holbrook": 1500,
	"Milton": 1000, "Randolph": 800, "Salem": 950, "Tewksbury": 1500,
	"Waltham": 1000, "Wareham": 1200, "West Springfield": 800,
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		DefaultHourlyRate: getEnvFloat("DEFAULT_HOURLY_RATE", 100),
		RateByFirstName:   copyTable(defaultRates),
		FeeByDistrict:     copyTable(defaultFees),
	}

	return cfg, nil
}

// HourlyRate looks up a psychologist's rate by first name, falling back to the
// default for unmapped names.
func (c Config) HourlyRate(firstName string) float64 {
	if rate, ok := c.RateByFirstName[firstName]; ok {
		return rate
	}
	return c.DefaultHourlyRate
}

// DistrictFee returns the flat per-case billing fee for a district, zero when
// no fee is on file.
func (c Config) DistrictFee(district string) float64 {
	return c.FeeByDistrict[district]
}

func copyTable(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

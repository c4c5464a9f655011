// Package config loads and validates application configuration from
// environment variables, with an optional YAML file for clustering
// threshold overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/trip-scout/internal/cluster"
	"github.com/pkordes/trip-scout/internal/domain"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Home is the default home center for the scan inclusion filter,
	// read from HOME_LAT / HOME_LON. Nil when either is unset; scans
	// must then supply a home override per request.
	Home *domain.Coordinate

	// NominatimURL is the base URL of the reverse-geocoding service.
	// Empty disables geocoding; days then carry "Unknown" places.
	NominatimURL string

	// GeocodeMaxPerMinute caps reverse-geocode requests to the upstream
	// service. Defaults to 60 (the public Nominatim usage policy).
	GeocodeMaxPerMinute int

	// Cluster holds the engine thresholds, starting from the production
	// defaults and optionally overridden by the YAML file named in
	// CLUSTER_CONFIG.
	Cluster cluster.Config
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is applied first if present.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Cluster:     cluster.DefaultConfig(),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	home, err := loadHome()
	if err != nil {
		return Config{}, err
	}
	cfg.Home = home

	cfg.NominatimURL = os.Getenv("NOMINATIM_URL")
	cfg.GeocodeMaxPerMinute, err = getEnvInt("GEOCODE_MAX_PER_MINUTE", 60)
	if err != nil {
		return Config{}, err
	}

	if path := os.Getenv("CLUSTER_CONFIG"); path != "" {
		if err := applyClusterOverrides(&cfg.Cluster, path); err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
	}

	return cfg, nil
}

// loadHome reads HOME_LAT and HOME_LON. Both must be set together.
func loadHome() (*domain.Coordinate, error) {
	latRaw, lonRaw := os.Getenv("HOME_LAT"), os.Getenv("HOME_LON")
	if latRaw == "" && lonRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lonRaw == "" {
		return nil, fmt.Errorf("HOME_LAT and HOME_LON must be set together")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LAT %q: %w", latRaw, err)
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LON %q: %w", lonRaw, err)
	}
	return &domain.Coordinate{Lat: lat, Lon: lon}, nil
}

// clusterOverrides mirrors the tunable subset of cluster.Config in YAML form.
// Pointer fields distinguish "absent" from "zero".
type clusterOverrides struct {
	MinTripMiles             *float64 `yaml:"min_trip_miles"`
	NeighborhoodRadiusMiles  *float64 `yaml:"neighborhood_radius_miles"`
	CountryFallbackMaxMiles  *float64 `yaml:"country_fallback_max_miles"`
	MaxGapDaysToBridge       *int     `yaml:"max_gap_days_to_bridge"`
	MultiCityDayMaxMiles     *float64 `yaml:"multi_city_day_max_miles"`
	TripExclusionRadiusMiles *float64 `yaml:"trip_exclusion_radius_miles"`
	MidnightBridgeWindow     *string  `yaml:"midnight_bridge_window"`
	HighOverlapFraction      *float64 `yaml:"high_overlap_fraction"`
	CountryOverlapFraction   *float64 `yaml:"country_overlap_fraction"`
}

// applyClusterOverrides reads the YAML file at path and applies any present
// fields onto dst.
func applyClusterOverrides(dst *cluster.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cluster config: %w", err)
	}
	var ov clusterOverrides
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("parse cluster config %s: %w", path, err)
	}

	if ov.MinTripMiles != nil {
		dst.MinTripMiles = *ov.MinTripMiles
	}
	if ov.NeighborhoodRadiusMiles != nil {
		dst.NeighborhoodRadiusMiles = *ov.NeighborhoodRadiusMiles
	}
	if ov.CountryFallbackMaxMiles != nil {
		dst.CountryFallbackMaxMiles = *ov.CountryFallbackMaxMiles
	}
	if ov.MaxGapDaysToBridge != nil {
		dst.MaxGapDaysToBridge = *ov.MaxGapDaysToBridge
	}
	if ov.MultiCityDayMaxMiles != nil {
		dst.MultiCityDayMaxMiles = *ov.MultiCityDayMaxMiles
	}
	if ov.TripExclusionRadiusMiles != nil {
		dst.TripExclusionRadiusMiles = *ov.TripExclusionRadiusMiles
	}
	if ov.MidnightBridgeWindow != nil {
		d, err := time.ParseDuration(*ov.MidnightBridgeWindow)
		if err != nil {
			return fmt.Errorf("invalid midnight_bridge_window %q: %w", *ov.MidnightBridgeWindow, err)
		}
		dst.MidnightBridgeWindow = d
	}
	if ov.HighOverlapFraction != nil {
		dst.HighOverlapFraction = *ov.HighOverlapFraction
	}
	if ov.CountryOverlapFraction != nil {
		dst.CountryOverlapFraction = *ov.CountryOverlapFraction
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt is getEnv for integer values.
func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Package cluster implements the geo-temporal clustering engine: it turns a
// flat, time-ordered list of photo records into Place Stops, Day Clusters,
// and Trips, and decides which freshly detected trips the user has already
// saved.
//
// Every function in this package is a pure, deterministic transformation of
// its inputs: no I/O, no globals, no dependence on map iteration order or
// wall-clock time. Callers may run the same computation from any context and
// must get byte-identical results.
package cluster

import "time"

// Config holds every threshold the engine uses. It is passed explicitly into
// each call rather than read from shared state, which keeps the engine
// reentrant and trivially testable.
type Config struct {
	// MinTripMiles is the inclusion radius: a photo closer than this to the
	// user's home center is "local" and never qualifies as a trip photo.
	// A photo at exactly this distance is included.
	MinTripMiles float64

	// NeighborhoodRadiusMiles is the close-range distance under which a day
	// always merges into the current trip, regardless of country.
	NeighborhoodRadiusMiles float64

	// CountryFallbackMaxMiles is the wider cap for merging same-country days
	// that fall outside the neighborhood radius.
	CountryFallbackMaxMiles float64

	// MaxGapDaysToBridge is the largest calendar-day gap tolerated between
	// two merged days (e.g. a rest day with no photos).
	MaxGapDaysToBridge int

	// MultiCityDayMaxMiles caps a day's internal city spread: a day whose
	// city centroids span more than this is too ambiguous to append to an
	// existing trip.
	MultiCityDayMaxMiles float64

	// TripExclusionRadiusMiles bounds the distance from a day to the trip's
	// running centroid, guarding against slow centroid drift silently
	// annexing a distant day.
	TripExclusionRadiusMiles float64

	// MidnightBridgeWindow is the largest gap a photo taken before 5 AM may
	// have to its predecessor and still count as part of the previous day.
	MidnightBridgeWindow time.Duration

	// Place-stop clustering constants.
	StopStartWindow          time.Duration // photos this close to a stop's first photo join it
	StopExtendWindow         time.Duration // how long the most recent stop stays open for nearby photos
	StopExtendMeters         float64       // "nearby" for the extension rule
	WalkingSpeedMetersPerSec float64       // used to estimate plausible travel time between points
	WalkingTimeFudgeFactor   float64       // multiplier on the walking-time estimate
	NoLocationStopGap        time.Duration // time-gap segmentation when no photo in the day has GPS

	// Duplicate-match thresholds (fractions of the candidate's duration).
	HighOverlapFraction    float64 // duplicate regardless of country
	CountryOverlapFraction float64 // duplicate when countries also match
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinTripMiles:             50,
		NeighborhoodRadiusMiles:  50,
		CountryFallbackMaxMiles:  100,
		MaxGapDaysToBridge:       2,
		MultiCityDayMaxMiles:     100,
		TripExclusionRadiusMiles: 100,
		MidnightBridgeWindow:     2 * time.Hour,
		StopStartWindow:          5 * time.Minute,
		StopExtendWindow:         5 * time.Hour,
		StopExtendMeters:         50,
		WalkingSpeedMetersPerSec: 1.34,
		WalkingTimeFudgeFactor:   1.3,
		NoLocationStopGap:        30 * time.Minute,
		HighOverlapFraction:      0.80,
		CountryOverlapFraction:   0.30,
	}
}

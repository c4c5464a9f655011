package domain

import "time"

// DayCluster is the aggregated summary of one calendar day's trip-qualifying
// photos. It is only ever built from photos that passed the inclusion filter
// and carry a coordinate — a day with zero located photos is dropped upstream,
// never represented as an empty cluster.
type DayCluster struct {
	// Date is the local calendar day as a UTC midnight (see PhotoRecord.Day).
	Date time.Time `json:"date"`

	// Centroid is the arithmetic mean of the constituent photo coordinates.
	Centroid Coordinate `json:"centroid"`

	// CountryKey is the dominant country of the day: the most frequent
	// country key among photos, ties broken by first-seen order. A key is
	// the ISO country code when known, else the country name, else "?".
	CountryKey string `json:"country_key"`

	// CountryName is the display name for the dominant country,
	// "Unknown" when the geocoder never resolved one.
	CountryName string `json:"country_name"`

	// City is the dominant city key of the day, same most-frequent rule.
	City string `json:"city"`

	// CityCentroids holds the mean coordinate of each distinct city observed
	// that day, in first-seen order.
	CityCentroids []Coordinate `json:"city_centroids"`

	// MaxDistanceWithinDayMiles is the greatest pairwise great-circle
	// distance among CityCentroids; 0 when the day has fewer than two cities.
	MaxDistanceWithinDayMiles float64 `json:"max_distance_within_day_miles"`

	// Photos are the underlying records, in chronological order.
	Photos []PhotoRecord `json:"photos"`
}

// GapDays returns the whole calendar-day difference from d's date to other's
// date. Positive when other is later.
func (d DayCluster) GapDays(other DayCluster) int {
	return int(other.Date.Sub(d.Date) / (24 * time.Hour))
}

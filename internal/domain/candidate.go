package domain

import (
	"strings"
	"time"
)

// MergeReason explains why a day was merged into (or split off from) a trip
// during grouping. Reasons are diagnostic only: they never influence
// behavior, but surfacing them makes grouping decisions explainable.
type MergeReason string

const (
	MergeReasonFirstDay         MergeReason = "first_day"
	MergeReasonNeighborhood     MergeReason = "neighborhood_pass"
	MergeReasonCountryFallback  MergeReason = "country_fallback_pass"
	MergeReasonGapTooLarge      MergeReason = "gap_too_large"
	MergeReasonDistanceTooFar   MergeReason = "distance_too_far"
	MergeReasonDifferentCountry MergeReason = "different_country"
	MergeReasonMultiCityDay     MergeReason = "multi_city_day"
)

// TripDay is one day of a trip candidate together with the grouping decision
// that placed it there.
type TripDay struct {
	Cluster DayCluster  `json:"cluster"`
	Reason  MergeReason `json:"reason"`
}

// TripCandidate is an ordered, non-empty run of day clusters detected by the
// grouper. Candidates are ephemeral: they live only for the duration of a
// scan, until the user either saves one as a Trip or dismisses it.
type TripCandidate struct {
	// SourceID is a stable identifier derived from the candidate's date
	// span. Saving a candidate records it, so a later scan of the same
	// window recognizes the trip as already saved.
	SourceID string    `json:"source_id"`
	Days     []TripDay `json:"days"`
}

// StartDate returns the candidate's first calendar day (UTC midnight).
func (c TripCandidate) StartDate() time.Time {
	if len(c.Days) == 0 {
		return time.Time{}
	}
	return c.Days[0].Cluster.Date
}

// EndDate returns the candidate's last calendar day (UTC midnight).
func (c TripCandidate) EndDate() time.Time {
	if len(c.Days) == 0 {
		return time.Time{}
	}
	return c.Days[len(c.Days)-1].Cluster.Date
}

// DominantCountry returns the most frequent country display name across the
// candidate's days, ties broken by first-seen order. Empty for an empty
// candidate.
func (c TripCandidate) DominantCountry() string {
	var order []string
	counts := make(map[string]int)
	for _, d := range c.Days {
		name := d.Cluster.CountryName
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}

// DominantCity returns the most frequent dominant-city key across the
// candidate's days, same rule as DominantCountry.
func (c TripCandidate) DominantCity() string {
	var order []string
	counts := make(map[string]int)
	for _, d := range c.Days {
		city := d.Cluster.City
		if _, seen := counts[city]; !seen {
			order = append(order, city)
		}
		counts[city]++
	}
	best := ""
	bestCount := 0
	for _, city := range order {
		if counts[city] > bestCount {
			best, bestCount = city, counts[city]
		}
	}
	return best
}

// SuggestedName builds a human-readable draft title for the candidate,
// e.g. "Lisbon, June 2025". Falls back to the country when no city was
// resolved, and to a bare month when neither is known.
func (c TripCandidate) SuggestedName() string {
	when := c.StartDate().Format("January 2006")
	place := c.DominantCity()
	if place == "" || place == "?" {
		place = c.DominantCountry()
	}
	if place == "" || place == "Unknown" {
		return "Trip, " + when
	}
	return place + ", " + when
}

// normalizeCountry lowercases a country name for the case-insensitive
// comparisons used by duplicate matching.
func normalizeCountry(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameCountry reports whether two country display names match
// case-insensitively. Two absent names never match: an unknown country can
// not confirm a duplicate.
func SameCountry(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return normalizeCountry(a) == normalizeCountry(b)
}

package cluster

import (
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
)

// IsAlreadySaved reports whether a freshly detected candidate matches a trip
// the user has already saved, so the scan can suppress it.
//
// A source-ID match wins immediately. Otherwise a candidate with a
// zero-length date span uses single-day logic: it is a duplicate when a
// saved trip's date range contains the day and shares the candidate's
// country (case-insensitively), or when the saved trip is itself exactly
// that single day, country regardless. Multi-day candidates compare date
// spans: overlap of at least HighOverlapFraction of the candidate's own
// duration is a duplicate regardless of country; at least
// CountryOverlapFraction with a case-insensitive country match also is.
//
// Saved trips without a known date range cannot confirm a match and are
// skipped rather than treated as errors.
func IsAlreadySaved(candidate domain.TripCandidate, saved []domain.Trip, cfg Config) bool {
	for _, s := range saved {
		if s.SourceID != "" && s.SourceID == candidate.SourceID {
			return true
		}
	}

	start, end := candidate.StartDate(), candidate.EndDate()
	if start.IsZero() {
		return false
	}

	if start.Equal(end) {
		return singleDayMatch(start, candidate.DominantCountry(), saved)
	}

	duration := end.Sub(start).Seconds()
	for _, s := range saved {
		if s.EndDate == nil {
			continue
		}
		overlap := minTime(end, *s.EndDate).Sub(maxTime(start, s.StartDate)).Seconds()
		if overlap <= 0 {
			continue
		}
		fraction := overlap / duration
		if fraction >= cfg.HighOverlapFraction {
			return true
		}
		if fraction >= cfg.CountryOverlapFraction && domain.SameCountry(candidate.DominantCountry(), s.Country) {
			return true
		}
	}
	return false
}

// singleDayMatch applies the degenerate-span rules for a one-day candidate.
func singleDayMatch(day time.Time, country string, saved []domain.Trip) bool {
	for _, s := range saved {
		if s.EndDate == nil {
			continue
		}
		savedStart := truncateToDay(s.StartDate)
		savedEnd := truncateToDay(*s.EndDate)

		contains := !day.Before(savedStart) && !day.After(savedEnd)
		if contains && domain.SameCountry(country, s.Country) {
			return true
		}
		if savedStart.Equal(day) && savedEnd.Equal(day) {
			return true
		}
	}
	return false
}

// truncateToDay normalizes a timestamp to its UTC-midnight calendar day, so
// saved dates loaded from a SQL date column compare cleanly against the
// engine's day values.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

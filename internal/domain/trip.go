package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a saved trip: a candidate the user accepted and turned into
// a blog draft. A trip is the top-level aggregate; days belong to a trip.
//
// SourceID and the date range are what the duplicate matcher uses to suppress
// re-detections of the same trip in later scans.
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	SourceID  string     `json:"source_id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"` // nil when the date range is unknown
	Country   string     `json:"country,omitempty"`  // dominant country display name
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Days are the per-day summaries persisted with the trip,
	// ordered by date ascending. Empty on list responses.
	Days []TripDaySummary `json:"days,omitempty"`
}

// TripDaySummary is the persisted, flattened form of a DayCluster: enough to
// rebuild titles and maps for a saved trip without keeping every photo.
type TripDaySummary struct {
	ID         uuid.UUID  `json:"id"`
	TripID     uuid.UUID  `json:"trip_id"`
	Date       time.Time  `json:"date"`
	Centroid   Coordinate `json:"centroid"`
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	PhotoCount int        `json:"photo_count"`
}

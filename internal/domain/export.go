package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per saved-trip day, with trip
// fields repeated for every day. Trips with no persisted days yield one row
// with zero values for all day fields.
type ExportRow struct {
	// Trip fields — repeated for every day of the trip.
	TripID        string `json:"trip_id"`
	TripName      string `json:"trip_name"`
	TripStartDate string `json:"trip_start_date"` // "2006-01-02" formatted date
	TripEndDate   string `json:"trip_end_date"`   // empty string when nil
	TripCountry   string `json:"trip_country"`

	// Day fields — zero values when the trip has no persisted days.
	Date       string  `json:"date"` // "2006-01-02"
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	PhotoCount int     `json:"photo_count"`
}

package domain

// PlaceStop is one contiguous visit to a single location within a day,
// inferred from time and distance proximity between consecutive photos.
type PlaceStop struct {
	// Index is the 0-based chronological position of the stop within its day.
	Index int `json:"index"`

	// Coord is the representative coordinate: the first photo in the stop
	// that has one. Nil when no photo in the stop carries GPS metadata.
	Coord *Coordinate `json:"coord,omitempty"`

	// Photos are the stop's members in the same order they were taken.
	// A photo belongs to exactly one stop.
	Photos []PhotoRecord `json:"photos"`
}

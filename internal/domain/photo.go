// Package domain contains the core data types for Trip Scout.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (geo, cluster, repo, service, handler).
package domain

import "time"

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a resolved reverse-geocoding result for a coordinate.
// All fields are best-effort; the zero value means "not resolved".
// CountryName degrades to "Unknown" rather than empty when a lookup fails,
// so downstream aggregation never has to special-case errors.
type Place struct {
	CountryName string `json:"country_name,omitempty"`
	CountryCode string `json:"country_code,omitempty"` // ISO 3166-1 alpha-2, lowercase
	City        string `json:"city,omitempty"`
	Area        string `json:"area,omitempty"` // suburb / neighbourhood fallback
	Label       string `json:"label,omitempty"`
}

// PhotoRecord is one photo's metadata as delivered by the photo-library
// collaborator. It is read-only input to the clustering pipeline: the engine
// never mutates records, it only groups them.
//
// Coord is nil when the photo carries no GPS metadata. Place is the zero
// value until the geocoding step resolves it.
type PhotoRecord struct {
	// ID is the opaque stable identifier assigned by the photo library.
	ID      string      `json:"id"`
	TakenAt time.Time   `json:"taken_at"`
	Coord   *Coordinate `json:"coord,omitempty"`
	Place   Place       `json:"place,omitempty"`
}

// Day returns the photo's local calendar day as a UTC midnight.
// Two photos share a calendar day exactly when their Day values are equal,
// and calendar-day gaps are whole multiples of 24h between Day values.
func (p PhotoRecord) Day() time.Time {
	y, m, d := p.TakenAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Package geo provides great-circle distance math for the clustering engine.
// Pure functions only: no state, no failure modes.
package geo

import (
	"math"

	"github.com/pkordes/trip-scout/internal/domain"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// MetersPerMile converts the miles returned by DistanceMiles into meters for
// the walking-speed math in the place-stop clusterer.
const MetersPerMile = 1609.344

// DistanceMiles returns the great-circle (haversine) distance in miles
// between two coordinates.
func DistanceMiles(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// MaxPairwiseDistanceMiles returns the greatest distance between any two of
// the given coordinates, or 0 when fewer than two are supplied.
func MaxPairwiseDistanceMiles(coords []domain.Coordinate) float64 {
	maxDist := 0.0
	for i := 0; i < len(coords); i++ {
		for j := i + 1; j < len(coords); j++ {
			if d := DistanceMiles(coords[i], coords[j]); d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}

// ValidCoordinate reports whether a raw (lat, lon) pair lies within
// [-90, 90] x [-180, 180]. Used defensively to catch swapped-axis bugs at
// the import boundary; it plays no part in the inclusion decision itself.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

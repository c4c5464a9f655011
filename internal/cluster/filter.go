package cluster

import (
	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geo"
)

// ShouldInclude decides whether a photo qualifies as a trip photo.
//
// A photo without a coordinate never qualifies. A photo strictly closer than
// minMiles to the home center is local and excluded; a photo at exactly
// minMiles or farther is included. The >= boundary is load-bearing — tests
// pin it on both sides.
func ShouldInclude(coord *domain.Coordinate, home domain.Coordinate, minMiles float64) bool {
	if coord == nil {
		return false
	}
	return geo.DistanceMiles(home, *coord) >= minMiles
}

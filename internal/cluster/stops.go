package cluster

import (
	"sort"
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geo"
)

// BuildPlaceStops partitions one day's trip-qualifying photos, in
// chronological order, into contiguous visits to one place. Membership is
// decided in a single forward pass: once a photo is assigned to a stop it is
// never moved.
//
// When no photo in the day carries a coordinate the partition degrades to
// pure time-gap segmentation (a gap over cfg.NoLocationStopGap opens a new
// stop). Otherwise each photo is offered to the open stops in creation order
// and joins the first one that accepts it; see stopAccepts for the rule.
func BuildPlaceStops(photos []domain.PhotoRecord, cfg Config) []domain.PlaceStop {
	if len(photos) == 0 {
		return nil
	}

	sorted := make([]domain.PhotoRecord, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.Before(sorted[j].TakenAt)
	})

	anyLocated := false
	for _, p := range sorted {
		if p.Coord != nil {
			anyLocated = true
			break
		}
	}

	var groups [][]domain.PhotoRecord
	if anyLocated {
		groups = clusterByPlace(sorted, cfg)
	} else {
		groups = clusterByTimeGap(sorted, cfg.NoLocationStopGap)
	}

	stops := make([]domain.PlaceStop, len(groups))
	for i, g := range groups {
		stops[i] = domain.PlaceStop{
			Index:  i,
			Coord:  firstCoord(g),
			Photos: g,
		}
	}
	return stops
}

// clusterByTimeGap opens a new stop whenever the gap to the previous photo
// exceeds maxGap. Fallback mode for days without any GPS metadata.
func clusterByTimeGap(photos []domain.PhotoRecord, maxGap time.Duration) [][]domain.PhotoRecord {
	groups := [][]domain.PhotoRecord{{photos[0]}}
	for i := 1; i < len(photos); i++ {
		if photos[i].TakenAt.Sub(photos[i-1].TakenAt) > maxGap {
			groups = append(groups, []domain.PhotoRecord{photos[i]})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], photos[i])
	}
	return groups
}

// clusterByPlace runs the hybrid distance/time pass. Each open stop remembers
// its first (reference) photo and its most recent photo; a new photo joins
// the first stop, in creation order, that accepts it, or opens a new stop.
func clusterByPlace(photos []domain.PhotoRecord, cfg Config) [][]domain.PhotoRecord {
	groups := [][]domain.PhotoRecord{{photos[0]}}
	for i := 1; i < len(photos); i++ {
		p := photos[i]
		placed := false
		for gi := range groups {
			if stopAccepts(groups[gi], p, gi == len(groups)-1, cfg) {
				groups[gi] = append(groups[gi], p)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []domain.PhotoRecord{p})
		}
	}
	return groups
}

// stopAccepts reports whether an open stop takes the photo. Both conditions
// must hold:
//
//  1. The photo falls inside the stop's start window, or it is within
//     StopExtendMeters of the stop's last photo, inside the extend window,
//     and the stop is the most recently created one.
//  2. The gap since the stop's last photo is either longer than the
//     estimated walking time between the two points (the traveller had time
//     to leave and come back) or under the start window (snapped in quick
//     succession). With no coordinate on either side the distance is 0, the
//     walking estimate is 0, and the gap check is effectively always
//     satisfied.
func stopAccepts(stop []domain.PhotoRecord, p domain.PhotoRecord, mostRecent bool, cfg Config) bool {
	first := stop[0]
	last := stop[len(stop)-1]

	sinceStart := p.TakenAt.Sub(first.TakenAt)
	distMeters := distanceMeters(last, p)

	nearStart := sinceStart < cfg.StopStartWindow
	nearLast := distMeters < cfg.StopExtendMeters && sinceStart < cfg.StopExtendWindow && mostRecent
	if !nearStart && !nearLast {
		return false
	}

	gap := p.TakenAt.Sub(last.TakenAt)
	expectedTravel := walkingTime(distMeters, cfg)
	return gap > expectedTravel || gap < cfg.StopStartWindow
}

// walkingTime estimates how long it plausibly takes to walk distMeters,
// padded by the fudge factor.
func walkingTime(distMeters float64, cfg Config) time.Duration {
	seconds := distMeters / cfg.WalkingSpeedMetersPerSec * cfg.WalkingTimeFudgeFactor
	return time.Duration(seconds * float64(time.Second))
}

// distanceMeters returns the distance between two photos, or 0 when either
// side has no coordinate.
func distanceMeters(a, b domain.PhotoRecord) float64 {
	if a.Coord == nil || b.Coord == nil {
		return 0
	}
	return geo.DistanceMiles(*a.Coord, *b.Coord) * geo.MetersPerMile
}

// firstCoord returns the first coordinate found among the photos, or nil.
func firstCoord(photos []domain.PhotoRecord) *domain.Coordinate {
	for _, p := range photos {
		if p.Coord != nil {
			return p.Coord
		}
	}
	return nil
}

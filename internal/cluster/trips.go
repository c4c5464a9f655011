package cluster

import (
	"fmt"
	"sort"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geo"
)

// GroupTrips partitions chronologically sorted day clusters into trips.
//
// The primary pass is a greedy state machine: each day either joins the
// current trip or opens a new one, decided by the layered rules in decideDay.
// A post-pass then re-absorbs isolated single-day trips into an adjacent trip
// when country, gap, and distance justify it, repeating until no merge
// applies (each merge strictly reduces the trip count, so this terminates).
//
// Output trips never overlap in membership and their union equals the input
// day set. For a fixed input and config the partitioning and reasons are
// identical on every run.
func GroupTrips(days []domain.DayCluster, cfg Config) []domain.TripCandidate {
	if len(days) == 0 {
		return nil
	}

	sorted := make([]domain.DayCluster, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var trips []domain.TripCandidate
	cur := domain.TripCandidate{
		Days: []domain.TripDay{{Cluster: sorted[0], Reason: domain.MergeReasonFirstDay}},
	}
	accum := centroidAccum{}
	accum.add(sorted[0].Centroid)

	for _, d := range sorted[1:] {
		last := cur.Days[len(cur.Days)-1].Cluster
		reason, accept := decideDay(d, last, accum.centroid(), cfg)
		if accept {
			cur.Days = append(cur.Days, domain.TripDay{Cluster: d, Reason: reason})
			accum.add(d.Centroid)
			continue
		}
		trips = append(trips, cur)
		cur = domain.TripCandidate{Days: []domain.TripDay{{Cluster: d, Reason: reason}}}
		accum = centroidAccum{}
		accum.add(d.Centroid)
	}
	trips = append(trips, cur)

	trips = smoothIsolatedDays(trips, cfg)

	for i := range trips {
		trips[i].SourceID = sourceID(trips[i])
	}
	return trips
}

// decideDay evaluates the merge rules for day d against the current trip,
// in this exact order — the first matching rule wins:
//
//  1. Reject when the calendar gap to the trip's last day is too large.
//  2. Reject when d is too far from the trip's running centroid (guards
//     against slow centroid drift annexing a distant day).
//  3. Accept when d is within the neighborhood radius of the last day —
//     near-field days always merge, even across a country border.
//  4. Reject when d's dominant country differs from the last day's.
//  5. Reject when the same-country distance exceeds the fallback cap.
//  6. Reject when d itself spans widely separated cities; such a day is too
//     ambiguous to append even though the country and distance checks passed.
//  7. Accept via country fallback.
//
// Note the asymmetry between 3 and 4: borders are porous inside the
// neighborhood radius and impermeable beyond it. That ordering is pinned by
// a regression test; do not "fix" it.
func decideDay(d, last domain.DayCluster, tripCentroid domain.Coordinate, cfg Config) (domain.MergeReason, bool) {
	if last.GapDays(d) > cfg.MaxGapDaysToBridge {
		return domain.MergeReasonGapTooLarge, false
	}
	if geo.DistanceMiles(d.Centroid, tripCentroid) > cfg.TripExclusionRadiusMiles {
		return domain.MergeReasonDistanceTooFar, false
	}
	distToLast := geo.DistanceMiles(d.Centroid, last.Centroid)
	if distToLast <= cfg.NeighborhoodRadiusMiles {
		return domain.MergeReasonNeighborhood, true
	}
	if d.CountryKey != last.CountryKey {
		return domain.MergeReasonDifferentCountry, false
	}
	if distToLast > cfg.CountryFallbackMaxMiles {
		return domain.MergeReasonDistanceTooFar, false
	}
	if d.MaxDistanceWithinDayMiles > cfg.MultiCityDayMaxMiles {
		return domain.MergeReasonMultiCityDay, false
	}
	return domain.MergeReasonCountryFallback, true
}

// smoothIsolatedDays re-absorbs single-day trips into a qualifying neighbor.
// A neighbor qualifies when it shares the isolated day's dominant country,
// the calendar gap is bridgeable, and the distance is within the country
// fallback cap. When both neighbors qualify the geographically closer one
// wins, predecessor on a tie. After every merge the scan restarts from the
// front, because a merge can expose a new isolated day elsewhere.
//
// The day's internal city spread is not re-checked here: a day isolated by
// the multi-city rule may still be re-absorbed between two halves of the
// same trip.
func smoothIsolatedDays(trips []domain.TripCandidate, cfg Config) []domain.TripCandidate {
	for {
		merged := false
		for i := range trips {
			if len(trips[i].Days) != 1 {
				continue
			}
			iso := trips[i].Days[0]

			var predDist, succDist float64
			predOK, succOK := false, false
			if i > 0 {
				predLast := trips[i-1].Days[len(trips[i-1].Days)-1].Cluster
				predDist = geo.DistanceMiles(iso.Cluster.Centroid, predLast.Centroid)
				predOK = neighborQualifies(predLast, iso.Cluster, predDist, cfg)
			}
			if i < len(trips)-1 {
				succFirst := trips[i+1].Days[0].Cluster
				succDist = geo.DistanceMiles(iso.Cluster.Centroid, succFirst.Centroid)
				succOK = neighborQualifies(succFirst, iso.Cluster, succDist, cfg)
			}

			switch {
			case predOK && (!succOK || predDist <= succDist):
				trips[i-1].Days = append(trips[i-1].Days, iso)
				trips = append(trips[:i], trips[i+1:]...)
			case succOK:
				trips[i+1].Days = append([]domain.TripDay{iso}, trips[i+1].Days...)
				trips = append(trips[:i], trips[i+1:]...)
			default:
				continue
			}
			merged = true
			break
		}
		if !merged {
			return trips
		}
	}
}

// neighborQualifies reports whether the isolated day may merge toward the
// given neighboring day.
func neighborQualifies(neighbor, iso domain.DayCluster, dist float64, cfg Config) bool {
	gap := neighbor.GapDays(iso)
	if gap < 0 {
		gap = -gap
	}
	return neighbor.CountryKey == iso.CountryKey &&
		gap <= cfg.MaxGapDaysToBridge &&
		dist <= cfg.CountryFallbackMaxMiles
}

// sourceID derives the stable identifier for a candidate from its date span.
// Saving a trip persists this ID, letting the duplicate matcher short-circuit
// when a later scan re-detects the same span.
func sourceID(c domain.TripCandidate) string {
	const layout = "20060102"
	return fmt.Sprintf("scan:%s-%s", c.StartDate().Format(layout), c.EndDate().Format(layout))
}

// centroidAccum keeps the running centroid of the current trip. Updated
// incrementally as days merge; reset when a new trip opens.
type centroidAccum struct {
	lat, lon float64
	n        int
}

func (a *centroidAccum) add(c domain.Coordinate) {
	a.lat += c.Lat
	a.lon += c.Lon
	a.n++
}

func (a *centroidAccum) centroid() domain.Coordinate {
	if a.n == 0 {
		return domain.Coordinate{}
	}
	return domain.Coordinate{Lat: a.lat / float64(a.n), Lon: a.lon / float64(a.n)}
}

package cluster

import (
	"sort"
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geo"
)

// BuildDayClusters groups trip-qualifying photos into calendar days (with the
// midnight-bridge reassignment applied first) and aggregates each day into a
// DayCluster. Days where no photo carries a coordinate are dropped, never
// emitted as empty clusters. The result is ordered by date ascending.
func BuildDayClusters(photos []domain.PhotoRecord, cfg Config) []domain.DayCluster {
	groups := groupPhotosByDay(photos, cfg.MidnightBridgeWindow)

	clusters := make([]domain.DayCluster, 0, len(groups))
	for _, g := range groups {
		if c, ok := aggregateDay(g.date, g.photos); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// dayGroup is one calendar day's photos after midnight bridging. The date is
// fixed when the group is opened; bridged-in photos keep the group's date
// even though their own timestamp falls on the next day.
type dayGroup struct {
	date   time.Time
	photos []domain.PhotoRecord
}

// groupPhotosByDay partitions photos by local calendar day, walking
// chronologically. A photo taken before 5 AM whose gap to the immediately
// preceding photo (which may itself have been bridged) is within the bridge
// window joins the previous day's group instead of opening a new one: a late
// dinner running past midnight stays with the evening it belongs to. The walk
// only moves photos into the immediately preceding group, so a single pass
// can never cascade a photo across more than one day boundary.
func groupPhotosByDay(photos []domain.PhotoRecord, bridge time.Duration) []dayGroup {
	if len(photos) == 0 {
		return nil
	}

	sorted := make([]domain.PhotoRecord, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.Before(sorted[j].TakenAt)
	})

	groups := []dayGroup{{date: sorted[0].Day(), photos: sorted[:1:1]}}
	for i := 1; i < len(sorted); i++ {
		p := sorted[i]
		last := &groups[len(groups)-1]

		switch {
		case p.Day().Equal(last.date):
			last.photos = append(last.photos, p)
		case p.TakenAt.Hour() < 5 && p.TakenAt.Sub(sorted[i-1].TakenAt) <= bridge:
			last.photos = append(last.photos, p)
		default:
			groups = append(groups, dayGroup{date: p.Day(), photos: sorted[i : i+1 : i+1]})
		}
	}
	return groups
}

// aggregateDay builds the per-day summary: centroid, dominant country and
// city, city centroids, and the maximum pairwise distance among them.
// Returns false when no photo in the group carries a coordinate.
//
// Dominance tallies keep first-seen key order explicitly so that ties break
// by encounter order on every run, never by map iteration order.
func aggregateDay(date time.Time, photos []domain.PhotoRecord) (domain.DayCluster, bool) {
	var located []domain.PhotoRecord
	var sumLat, sumLon float64
	for _, p := range photos {
		if p.Coord != nil {
			located = append(located, p)
			sumLat += p.Coord.Lat
			sumLon += p.Coord.Lon
		}
	}
	if len(located) == 0 {
		return domain.DayCluster{}, false
	}

	countries := newTally()
	cities := newTally()
	citySums := make(map[string]*coordSum)
	countryNames := make(map[string]string)

	for _, p := range located {
		ck := countryKey(p.Place)
		countries.add(ck)
		if _, ok := countryNames[ck]; !ok {
			countryNames[ck] = displayCountry(p.Place)
		}

		city := cityKey(p.Place)
		cities.add(city)
		cs, ok := citySums[city]
		if !ok {
			cs = &coordSum{}
			citySums[city] = cs
		}
		cs.lat += p.Coord.Lat
		cs.lon += p.Coord.Lon
		cs.n++
	}

	cityCentroids := make([]domain.Coordinate, 0, len(cities.order))
	for _, city := range cities.order {
		cs := citySums[city]
		cityCentroids = append(cityCentroids, domain.Coordinate{
			Lat: cs.lat / float64(cs.n),
			Lon: cs.lon / float64(cs.n),
		})
	}

	dominantCountry := countries.dominant()
	return domain.DayCluster{
		Date: date,
		Centroid: domain.Coordinate{
			Lat: sumLat / float64(len(located)),
			Lon: sumLon / float64(len(located)),
		},
		CountryKey:                dominantCountry,
		CountryName:               countryNames[dominantCountry],
		City:                      cities.dominant(),
		CityCentroids:             cityCentroids,
		MaxDistanceWithinDayMiles: geo.MaxPairwiseDistanceMiles(cityCentroids),
		Photos:                    located,
	}, true
}

// countryKey prefers the ISO country code, falls back to the country name,
// then to "?" when the geocoder resolved nothing.
func countryKey(pl domain.Place) string {
	if pl.CountryCode != "" {
		return pl.CountryCode
	}
	if pl.CountryName != "" {
		return pl.CountryName
	}
	return "?"
}

// cityKey prefers the city name, falls back to the area/neighbourhood name,
// then to "?".
func cityKey(pl domain.Place) string {
	if pl.City != "" {
		return pl.City
	}
	if pl.Area != "" {
		return pl.Area
	}
	return "?"
}

// displayCountry returns the human-readable country name for a place,
// degrading to "Unknown" when the geocoder never resolved one.
func displayCountry(pl domain.Place) string {
	if pl.CountryName != "" {
		return pl.CountryName
	}
	return "Unknown"
}

// tally counts occurrences per key while remembering first-seen order, so
// the dominant key is deterministic under ties.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// dominant returns the key with the highest count; ties break in favor of
// the key seen first.
func (t *tally) dominant() string {
	best := ""
	bestCount := 0
	for _, key := range t.order {
		if t.counts[key] > bestCount {
			best, bestCount = key, t.counts[key]
		}
	}
	return best
}

// coordSum accumulates a running mean for one city's coordinates.
type coordSum struct {
	lat, lon float64
	n        int
}

// Package geocode resolves coordinates to place labels via the Nominatim
// reverse-geocoding API. Lookups are keyed by a rounded coordinate so nearby
// photos share one resolution, cached in Postgres, and rate limited to a
// bounded number of requests per rolling minute.
//
// The clustering engine never calls this package — it consumes already
// resolved labels. Resolution happens in the scan service, before clustering.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
)

// Resolver is the capability the scan service depends on. Implementations
// must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
}

// Cache persists resolved places keyed by rounded coordinate.
// Implemented by repo.GeocacheRepo.
type Cache interface {
	Lookup(ctx context.Context, lat, lon float64) (domain.Place, bool, error)
	Insert(ctx context.Context, lat, lon float64, place domain.Place) error
}

// Neutral returns the degraded place used when resolution fails or is
// unavailable: an "Unknown" country and no city. Failures must never
// propagate into the clustering logic.
func Neutral() domain.Place {
	return domain.Place{CountryName: "Unknown"}
}

// Round snaps a coordinate to the shared lookup grid (two decimal places,
// roughly a kilometre), so photos taken near each other resolve once.
func Round(c domain.Coordinate) (lat, lon float64) {
	return math.Round(c.Lat*100) / 100, math.Round(c.Lon*100) / 100
}

// Nominatim resolves places against a Nominatim-compatible endpoint.
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	limiter    *rateLimiter
}

// NewNominatim constructs a resolver for the given base URL (e.g.
// "https://nominatim.openstreetmap.org"). maxPerMinute bounds outbound
// requests per rolling 60-second window; callers wait when the limit is
// reached. cache may be nil, in which case every Resolve hits the network.
func NewNominatim(baseURL string, cache Cache, maxPerMinute int) *Nominatim {
	return &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		limiter:    newRateLimiter(maxPerMinute, time.Minute),
	}
}

// Resolve returns the place labels for a coordinate, consulting the cache
// first. A successful network resolution is written back to the cache; a
// cache write failure is not fatal to the lookup.
func (n *Nominatim) Resolve(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	lat, lon := Round(coord)

	if n.cache != nil {
		place, ok, err := n.cache.Lookup(ctx, lat, lon)
		if err != nil {
			return domain.Place{}, fmt.Errorf("geocode.Nominatim.Resolve: cache lookup: %w", err)
		}
		if ok {
			return place, nil
		}
	}

	if err := n.limiter.wait(ctx); err != nil {
		return domain.Place{}, fmt.Errorf("geocode.Nominatim.Resolve: %w", err)
	}

	place, err := n.fetch(ctx, lat, lon)
	if err != nil {
		return domain.Place{}, fmt.Errorf("geocode.Nominatim.Resolve: %w", err)
	}

	if n.cache != nil {
		if err := n.cache.Insert(ctx, lat, lon, place); err != nil {
			return place, fmt.Errorf("geocode.Nominatim.Resolve: cache insert: %w", err)
		}
	}
	return place, nil
}

// nominatimResponse is the subset of the reverse API response we consume.
type nominatimResponse struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	Country       string `json:"country,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	Village       string `json:"village,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
}

// fetch queries the reverse endpoint. zoom=10 asks for city-level detail;
// the engine aggregates by city and country, not street address.
func (n *Nominatim) fetch(ctx context.Context, lat, lon float64) (domain.Place, error) {
	reqURL := fmt.Sprintf(
		"%s/reverse?lat=%.6f&lon=%.6f&format=jsonv2&zoom=10&addressdetails=1",
		n.baseURL, lat, lon,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Place{}, err
	}
	// Required by the Nominatim usage policy.
	req.Header.Set("User-Agent", "TripScout/1.0 (travel-blog-drafts)")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return domain.Place{}, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Place{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var nr nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return domain.Place{}, fmt.Errorf("failed to parse nominatim response: %w", err)
	}

	return placeFromResponse(nr), nil
}

// placeFromResponse maps the raw address fields onto a Place, picking the
// best available city and area names.
func placeFromResponse(nr nominatimResponse) domain.Place {
	addr := nr.Address

	city := addr.City
	if city == "" {
		city = addr.Town
	}
	if city == "" {
		city = addr.Village
	}

	area := addr.Suburb
	if area == "" {
		area = addr.Neighbourhood
	}

	label := nr.Name
	if label == "" {
		label = nr.DisplayName
	}

	country := addr.Country
	if country == "" {
		country = "Unknown"
	}

	return domain.Place{
		CountryName: country,
		CountryCode: strings.ToLower(addr.CountryCode),
		City:        city,
		Area:        area,
		Label:       label,
	}
}

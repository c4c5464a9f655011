package geocode_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geocode"
)

// memCache is an in-memory test double for geocode.Cache.
type memCache struct {
	mu      sync.Mutex
	places  map[string]domain.Place
	inserts int
}

func newMemCache() *memCache {
	return &memCache{places: make(map[string]domain.Place)}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

func (c *memCache) Lookup(_ context.Context, lat, lon float64) (domain.Place, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.places[cacheKey(lat, lon)]
	return p, ok, nil
}

func (c *memCache) Insert(_ context.Context, lat, lon float64, place domain.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.places[cacheKey(lat, lon)] = place
	c.inserts++
	return nil
}

// compile-time check: memCache must satisfy geocode.Cache.
var _ geocode.Cache = (*memCache)(nil)

// fakeNominatim returns an httptest server mimicking the reverse endpoint,
// plus a counter of requests received.
func fakeNominatim(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

const lisbonResponse = `{
	"name": "Lisboa",
	"display_name": "Lisboa, Portugal",
	"address": {
		"city": "Lisbon",
		"suburb": "Alfama",
		"country": "Portugal",
		"country_code": "pt"
	}
}`

func TestNeutral(t *testing.T) {
	assert.Equal(t, domain.Place{CountryName: "Unknown"}, geocode.Neutral())
}

// TestRound pins the cache grid: two decimal places, roughly a kilometre.
func TestRound(t *testing.T) {
	lat, lon := geocode.Round(domain.Coordinate{Lat: 38.72625, Lon: -9.13933})
	assert.Equal(t, 38.73, lat)
	assert.Equal(t, -9.14, lon)
}

func TestNominatim_Resolve_ParsesResponse(t *testing.T) {
	srv, _ := fakeNominatim(t, lisbonResponse)
	n := geocode.NewNominatim(srv.URL, nil, 60)

	place, err := n.Resolve(context.Background(), domain.Coordinate{Lat: 38.72, Lon: -9.14})

	require.NoError(t, err)
	assert.Equal(t, domain.Place{
		CountryName: "Portugal",
		CountryCode: "pt",
		City:        "Lisbon",
		Area:        "Alfama",
		Label:       "Lisboa",
	}, place)
}

// TestNominatim_Resolve_CachesByRoundedCell verifies that two coordinates in
// the same rounded cell cause exactly one network fetch and one cache insert.
func TestNominatim_Resolve_CachesByRoundedCell(t *testing.T) {
	srv, hits := fakeNominatim(t, lisbonResponse)
	cache := newMemCache()
	n := geocode.NewNominatim(srv.URL, cache, 60)

	first, err := n.Resolve(context.Background(), domain.Coordinate{Lat: 38.7201, Lon: -9.1399})
	require.NoError(t, err)

	second, err := n.Resolve(context.Background(), domain.Coordinate{Lat: 38.7249, Lon: -9.1351})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *hits, "second lookup must be served from cache")
	assert.Equal(t, 1, cache.inserts)
}

func TestNominatim_Resolve_FallbackNames(t *testing.T) {
	// Town stands in for a missing city, neighbourhood for a missing suburb,
	// and a missing country degrades to "Unknown".
	srv, _ := fakeNominatim(t, `{
		"display_name": "Somewhere",
		"address": {"town": "Sintra", "neighbourhood": "Centro"}
	}`)
	n := geocode.NewNominatim(srv.URL, nil, 60)

	place, err := n.Resolve(context.Background(), domain.Coordinate{Lat: 38.8, Lon: -9.39})

	require.NoError(t, err)
	assert.Equal(t, "Sintra", place.City)
	assert.Equal(t, "Centro", place.Area)
	assert.Equal(t, "Unknown", place.CountryName)
	assert.Equal(t, "Somewhere", place.Label)
}

func TestNominatim_Resolve_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	n := geocode.NewNominatim(srv.URL, nil, 60)

	_, err := n.Resolve(context.Background(), domain.Coordinate{Lat: 1, Lon: 1})

	require.Error(t, err)
	assert.ErrorContains(t, err, "status 503")
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-scout/internal/domain"
)

// GeocacheRepo persists reverse-geocoding results keyed by rounded
// coordinate, so repeated lookups for nearby points never hit the network.
// It satisfies geocode.Cache.
type GeocacheRepo interface {
	// Lookup returns the cached place for a rounded coordinate.
	// The boolean is false on a cache miss; misses are not errors.
	Lookup(ctx context.Context, lat, lon float64) (domain.Place, bool, error)

	// Insert stores a resolved place. Inserting an already-cached key is a
	// no-op, so concurrent resolutions of the same cell cannot conflict.
	Insert(ctx context.Context, lat, lon float64, place domain.Place) error
}

// pgGeocacheRepo is the Postgres implementation of GeocacheRepo.
type pgGeocacheRepo struct {
	db db
}

// NewGeocacheRepo constructs a GeocacheRepo backed by the provided db connection.
func NewGeocacheRepo(db db) GeocacheRepo {
	return &pgGeocacheRepo{db: db}
}

// Lookup fetches a cached place by its rounded-coordinate key.
func (r *pgGeocacheRepo) Lookup(ctx context.Context, lat, lon float64) (domain.Place, bool, error) {
	const q = `
		SELECT country_name, country_code, city, area, label
		FROM geocache
		WHERE rlat = @rlat AND rlon = @rlon`

	var p domain.Place
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"rlat": lat, "rlon": lon}).
		Scan(&p.CountryName, &p.CountryCode, &p.City, &p.Area, &p.Label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, false, nil
		}
		return domain.Place{}, false, fmt.Errorf("repo.GeocacheRepo.Lookup: %w", err)
	}
	return p, true, nil
}

// Insert stores a resolved place under its rounded-coordinate key.
func (r *pgGeocacheRepo) Insert(ctx context.Context, lat, lon float64, place domain.Place) error {
	const q = `
		INSERT INTO geocache (rlat, rlon, country_name, country_code, city, area, label)
		VALUES (@rlat, @rlon, @country_name, @country_code, @city, @area, @label)
		ON CONFLICT (rlat, rlon) DO NOTHING`

	args := pgx.NamedArgs{
		"rlat":         lat,
		"rlon":         lon,
		"country_name": place.CountryName,
		"country_code": place.CountryCode,
		"city":         place.City,
		"area":         place.Area,
		"label":        place.Label,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.GeocacheRepo.Insert: %w", err)
	}
	return nil
}

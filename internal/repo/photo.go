package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-scout/internal/domain"
)

// PhotoRepo defines the persistence operations for imported photo metadata.
// The photo library lives on-device and pushes records here; scans read them
// back by time window.
type PhotoRepo interface {
	// UpsertBatch inserts or refreshes photo records keyed by their library
	// ID. Re-importing the same photo overwrites its metadata, so the import
	// endpoint is idempotent.
	UpsertBatch(ctx context.Context, photos []domain.PhotoRecord) error

	// ListByWindow returns all photos with from <= taken_at < to,
	// ordered by taken_at ascending — the order the clustering engine
	// expects its input in.
	ListByWindow(ctx context.Context, from, to time.Time) ([]domain.PhotoRecord, error)
}

// pgPhotoRepo is the Postgres implementation of PhotoRepo.
type pgPhotoRepo struct {
	db db
}

// NewPhotoRepo constructs a PhotoRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPhotoRepo(db db) PhotoRepo {
	return &pgPhotoRepo{db: db}
}

// UpsertBatch writes all records in one round trip using a pgx batch.
func (r *pgPhotoRepo) UpsertBatch(ctx context.Context, photos []domain.PhotoRecord) error {
	if len(photos) == 0 {
		return nil
	}

	const q = `
		INSERT INTO photos (id, taken_at, lat, lon)
		VALUES (@id, @taken_at, @lat, @lon)
		ON CONFLICT (id) DO UPDATE
		SET taken_at = EXCLUDED.taken_at,
		    lat      = EXCLUDED.lat,
		    lon      = EXCLUDED.lon`

	batch := &pgx.Batch{}
	for _, p := range photos {
		var lat, lon *float64
		if p.Coord != nil {
			lat, lon = &p.Coord.Lat, &p.Coord.Lon
		}
		batch.Queue(q, pgx.NamedArgs{
			"id":       p.ID,
			"taken_at": p.TakenAt,
			"lat":      lat, // nil becomes NULL
			"lon":      lon,
		})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range photos {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("repo.PhotoRepo.UpsertBatch: %w", err)
		}
	}
	return nil
}

// ListByWindow returns the photos of a scan window in chronological order.
func (r *pgPhotoRepo) ListByWindow(ctx context.Context, from, to time.Time) ([]domain.PhotoRecord, error) {
	const q = `
		SELECT id, taken_at, lat, lon
		FROM photos
		WHERE taken_at >= @from AND taken_at < @to
		ORDER BY taken_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByWindow: %w", err)
	}
	defer rows.Close()

	var photos []domain.PhotoRecord
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PhotoRepo.ListByWindow: scan: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByWindow: rows: %w", err)
	}

	return photos, nil
}

// scanPhoto maps a database row into a domain.PhotoRecord, folding the
// nullable lat/lon pair into the optional Coord.
func scanPhoto(s scanner) (domain.PhotoRecord, error) {
	var (
		p        domain.PhotoRecord
		lat, lon *float64
	)
	if err := s.Scan(&p.ID, &p.TakenAt, &lat, &lon); err != nil {
		return domain.PhotoRecord{}, err
	}
	if lat != nil && lon != nil {
		p.Coord = &domain.Coordinate{Lat: *lat, Lon: *lon}
	}
	return p, nil
}

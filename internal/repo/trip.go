package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-scout/internal/domain"
)

// TripRepo defines the persistence operations for saved trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and its day summaries, returning the
	// persisted record (with DB-generated id, created_at, and updated_at
	// populated). A duplicate source_id is a validation error.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip with its days by UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips without their days, ordered by start_date
	// descending. The duplicate matcher and export both consume this.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips plus the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListDays returns a trip's persisted day summaries ordered by date.
	ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDaySummary, error)

	// Delete removes a trip (and its days, via cascade) by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts the trip row and its day rows in one transaction. Atomicity
// matters here: a trip row surviving a failed day insert would claim the
// source_id and suppress every future re-detection of the same span.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	var result domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = createTrip(ctx, tx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return result, nil
}

// createTrip runs the trip insert, the day batch, and the read-back on tx.
func createTrip(ctx context.Context, tx pgx.Tx, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (source_id, name, start_date, end_date, country, notes)
		VALUES (@source_id, @name, @start_date, @end_date, @country, @notes)
		RETURNING id, source_id, name, start_date, end_date, country, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"source_id":  trip.SourceID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate, // nil becomes NULL
		"country":    trip.Country,
		"notes":      trip.Notes,
	}

	row := tx.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w: trip already saved for this date span", domain.ErrValidation)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	if len(trip.Days) > 0 {
		const dq = `
			INSERT INTO trip_days (trip_id, day, lat, lon, city, country, photo_count)
			VALUES (@trip_id, @day, @lat, @lon, @city, @country, @photo_count)`

		batch := &pgx.Batch{}
		for _, d := range trip.Days {
			batch.Queue(dq, pgx.NamedArgs{
				"trip_id":     result.ID,
				"day":         d.Date,
				"lat":         d.Centroid.Lat,
				"lon":         d.Centroid.Lon,
				"city":        d.City,
				"country":     d.Country,
				"photo_count": d.PhotoCount,
			})
		}
		results := tx.SendBatch(ctx, batch)
		for range trip.Days {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: days: %w", err)
			}
		}
		// The batch must be closed before the read-back reuses the connection.
		if err := results.Close(); err != nil {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: days: %w", err)
		}
	}

	days, err := listDays(ctx, tx, result.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	result.Days = days
	return result, nil
}

// GetByID retrieves a trip with its day summaries.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT id, source_id, name, start_date, end_date, country, notes, created_at, updated_at
		FROM trips
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	days, err := listDays(ctx, r.db, result.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	result.Days = days
	return result, nil
}

// List returns all trips ordered by start_date descending (most recent first).
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT id, source_id, name, start_date, end_date, country, notes, created_at, updated_at
		FROM trips
		ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total row count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, source_id, name, start_date, end_date, country, notes, created_at, updated_at
		FROM trips
		ORDER BY start_date DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

// ListDays returns a trip's day summaries ordered by date ascending.
func (r *pgTripRepo) ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDaySummary, error) {
	return listDays(ctx, r.db, tripID)
}

// listDays is the shared implementation, callable on the pool or inside a
// Create transaction.
func listDays(ctx context.Context, conn db, tripID uuid.UUID) ([]domain.TripDaySummary, error) {
	const q = `
		SELECT id, trip_id, day, lat, lon, city, country, photo_count
		FROM trip_days
		WHERE trip_id = @trip_id
		ORDER BY day ASC`

	rows, err := conn.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListDays: %w", err)
	}
	defer rows.Close()

	var days []domain.TripDaySummary
	for rows.Next() {
		var (
			d      domain.TripDaySummary
			id     pgtype.UUID
			tid    pgtype.UUID
			dayRaw pgtype.Date
		)
		err := rows.Scan(&id, &tid, &dayRaw, &d.Centroid.Lat, &d.Centroid.Lon, &d.City, &d.Country, &d.PhotoCount)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListDays: scan: %w", err)
		}
		d.ID = uuid.UUID(id.Bytes)
		d.TripID = uuid.UUID(tid.Bytes)
		d.Date = dayRaw.Time
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListDays: rows: %w", err)
	}

	return days, nil
}

// Delete removes a trip by primary key; trip_days cascade.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectTrips drains rows into a slice of trips (without days).
func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable end_date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t       domain.Trip
		id      pgtype.UUID
		sdRaw   pgtype.Date
		endDate pgtype.Date
	)

	err := s.Scan(&id, &t.SourceID, &t.Name, &sdRaw, &endDate, &t.Country, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = sdRaw.Time
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}

	return t, nil
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/service"
)

// TestExportService_Export_FlattensTripsAndDays verifies the denormalized
// shape: one row per day with trip fields repeated, and one bare row for a
// trip without persisted days.
func TestExportService_Export_FlattensTripsAndDays(t *testing.T) {
	withDays := validTrip()
	withDays.ID = uuid.New()
	bare := domain.Trip{
		ID:        uuid.New(),
		Name:      "Dayless",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Country:   "Spain",
	}

	days := []domain.TripDaySummary{
		{
			Date:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Centroid:   domain.Coordinate{Lat: 38.72, Lon: -9.14},
			City:       "Lisbon",
			Country:    "Portugal",
			PhotoCount: 12,
		},
		{
			Date:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Centroid:   domain.Coordinate{Lat: 38.8, Lon: -9.39},
			City:       "Sintra",
			Country:    "Portugal",
			PhotoCount: 7,
		},
	}

	repo := &mockTripRepo{
		list: func(context.Context) ([]domain.Trip, error) {
			return []domain.Trip{withDays, bare}, nil
		},
		listDays: func(_ context.Context, tripID uuid.UUID) ([]domain.TripDaySummary, error) {
			if tripID == withDays.ID {
				return days, nil
			}
			return nil, nil
		},
	}

	rows, err := service.NewExportService(repo).Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, withDays.ID.String(), rows[0].TripID)
	assert.Equal(t, "2025-06-01", rows[0].Date)
	assert.Equal(t, "Lisbon", rows[0].City)
	assert.Equal(t, 12, rows[0].PhotoCount)
	assert.Equal(t, "2025-06-01", rows[0].TripStartDate)
	assert.Equal(t, "2025-06-04", rows[0].TripEndDate)

	assert.Equal(t, "Sintra", rows[1].City)

	// The dayless trip contributes one row with empty day fields.
	assert.Equal(t, bare.ID.String(), rows[2].TripID)
	assert.Empty(t, rows[2].Date)
	assert.Empty(t, rows[2].TripEndDate)
	assert.Zero(t, rows[2].PhotoCount)
}

func TestExportService_Export_NoTrips(t *testing.T) {
	repo := &mockTripRepo{
		list: func(context.Context) ([]domain.Trip, error) { return nil, nil },
	}

	rows, err := service.NewExportService(repo).Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

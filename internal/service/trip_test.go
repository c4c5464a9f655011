package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/repo"
	"github.com/pkordes/trip-scout/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context) ([]domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	listDays  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDaySummary, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDaySummary, error) {
	return m.listDays(ctx, tripID)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validTrip() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		SourceID:  "scan:20250601-20250604",
		Name:      "Lisbon, June 2025",
		StartDate: start,
		EndDate:   &end,
		Country:   "Portugal",
	}
}

// echoRepo echoes whatever Create receives back — useful for tests that only
// care about validation logic, not what the DB returns.
func echoRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Lisbon, June 2025", got.Name)
}

func TestTripService_Create_BlankName(t *testing.T) {
	svc := service.NewTripService(echoRepo())
	trip := validTrip()
	trip.Name = "   "

	_, err := svc.Create(context.Background(), trip)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "name")
}

func TestTripService_Create_BlankSourceID(t *testing.T) {
	svc := service.NewTripService(echoRepo())
	trip := validTrip()
	trip.SourceID = ""

	_, err := svc.Create(context.Background(), trip)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "source_id")
}

func TestTripService_Create_MissingStartDate(t *testing.T) {
	svc := service.NewTripService(echoRepo())
	trip := validTrip()
	trip.StartDate = time.Time{}

	_, err := svc.Create(context.Background(), trip)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "start_date")
}

func TestTripService_Create_EndBeforeStart(t *testing.T) {
	svc := service.NewTripService(echoRepo())
	trip := validTrip()
	before := trip.StartDate.AddDate(0, 0, -1)
	trip.EndDate = &before

	_, err := svc.Create(context.Background(), trip)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_DaysMustAscend(t *testing.T) {
	svc := service.NewTripService(echoRepo())
	trip := validTrip()
	trip.Days = []domain.TripDaySummary{
		{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}, // duplicate date
	}

	_, err := svc.Create(context.Background(), trip)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "ascending")
}

func TestTripService_Create_RepoErrorWrapped(t *testing.T) {
	repoErr := errors.New("boom")
	svc := service.NewTripService(&mockTripRepo{
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	})

	_, err := svc.Create(context.Background(), validTrip())

	require.ErrorIs(t, err, repoErr)
	assert.ErrorContains(t, err, "service.TripService.Create")
}

// ---- read/delete tests -----------------------------------------------------

func TestTripService_GetByID_NotFoundPassesThrough(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_ListPaged_NilBecomesEmpty(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		listPaged: func(context.Context, domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	})

	trips, total, err := svc.ListPaged(context.Background(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
	assert.Zero(t, total)
}

func TestTripService_Delete_NotFoundPassesThrough(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		delete: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
	})

	err := svc.Delete(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

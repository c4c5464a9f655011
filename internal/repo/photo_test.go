package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/repo"
)

func newTestPhotoRepo(t *testing.T) repo.PhotoRepo {
	t.Helper()
	return repo.NewPhotoRepo(testTx(t))
}

func photoAt(id string, takenAt time.Time, coord *domain.Coordinate) domain.PhotoRecord {
	return domain.PhotoRecord{ID: id, TakenAt: takenAt, Coord: coord}
}

func TestPhotoRepo_UpsertBatch_RoundTrip(t *testing.T) {
	r := newTestPhotoRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	err := r.UpsertBatch(ctx, []domain.PhotoRecord{
		photoAt("lib-1", base, &domain.Coordinate{Lat: 38.72, Lon: -9.14}),
		photoAt("lib-2", base.Add(time.Hour), nil),
	})
	require.NoError(t, err)

	photos, err := r.ListByWindow(ctx, base.Add(-time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, photos, 2)

	assert.Equal(t, "lib-1", photos[0].ID)
	require.NotNil(t, photos[0].Coord)
	assert.Equal(t, 38.72, photos[0].Coord.Lat)
	assert.Equal(t, -9.14, photos[0].Coord.Lon)

	assert.Equal(t, "lib-2", photos[1].ID)
	assert.Nil(t, photos[1].Coord, "photo without GPS round-trips as nil coordinate")
}

func TestPhotoRepo_UpsertBatch_Idempotent(t *testing.T) {
	r := newTestPhotoRepo(t)
	ctx := context.Background()

	takenAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	first := photoAt("lib-1", takenAt, nil)
	require.NoError(t, r.UpsertBatch(ctx, []domain.PhotoRecord{first}))

	// Re-import with refreshed metadata — GPS backfilled by the library.
	second := photoAt("lib-1", takenAt, &domain.Coordinate{Lat: 40.41, Lon: -3.70})
	require.NoError(t, r.UpsertBatch(ctx, []domain.PhotoRecord{second}))

	photos, err := r.ListByWindow(ctx, takenAt.Add(-time.Minute), takenAt.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, photos, 1, "upsert must not duplicate the row")
	require.NotNil(t, photos[0].Coord)
	assert.Equal(t, 40.41, photos[0].Coord.Lat)
}

func TestPhotoRepo_UpsertBatch_Empty(t *testing.T) {
	r := newTestPhotoRepo(t)

	assert.NoError(t, r.UpsertBatch(context.Background(), nil))
}

func TestPhotoRepo_ListByWindow_BoundsAndOrder(t *testing.T) {
	r := newTestPhotoRepo(t)
	ctx := context.Background()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	err := r.UpsertBatch(ctx, []domain.PhotoRecord{
		photoAt("before", from.Add(-time.Second), nil),
		photoAt("at-start", from, nil),
		photoAt("middle", from.Add(12*time.Hour), nil),
		photoAt("at-end", to, nil), // exclusive upper bound
	})
	require.NoError(t, err)

	photos, err := r.ListByWindow(ctx, from, to)
	require.NoError(t, err)

	var ids []string
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"at-start", "middle"}, ids)
}

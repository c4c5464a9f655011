// Package service contains the business logic for Trip Scout.
// Services validate inputs, enforce business rules, and orchestrate repo,
// geocoder, and engine calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geo"
	"github.com/pkordes/trip-scout/internal/repo"
)

// PhotoService implements business logic for photo metadata imports.
type PhotoService struct {
	photos repo.PhotoRepo
}

// NewPhotoService constructs a PhotoService backed by the provided PhotoRepo.
func NewPhotoService(photos repo.PhotoRepo) *PhotoService {
	return &PhotoService{photos: photos}
}

// Import validates and persists a batch of photo records, returning how many
// were written. Returns domain.ErrValidation naming the first offending
// record when the batch is malformed; the batch is all-or-nothing.
//
// The coordinate range check exists to catch swapped lat/lon at the import
// boundary — the clustering engine itself assumes coordinates are sane.
func (s *PhotoService) Import(ctx context.Context, photos []domain.PhotoRecord) (int, error) {
	if len(photos) == 0 {
		return 0, fmt.Errorf("%w: at least one photo is required", domain.ErrValidation)
	}
	for i, p := range photos {
		if p.ID == "" {
			return 0, fmt.Errorf("%w: photo %d: id is required", domain.ErrValidation, i)
		}
		if p.TakenAt.IsZero() {
			return 0, fmt.Errorf("%w: photo %q: taken_at is required", domain.ErrValidation, p.ID)
		}
		if p.Coord != nil && !geo.ValidCoordinate(p.Coord.Lat, p.Coord.Lon) {
			return 0, fmt.Errorf("%w: photo %q: coordinate out of range", domain.ErrValidation, p.ID)
		}
	}

	if err := s.photos.UpsertBatch(ctx, photos); err != nil {
		return 0, fmt.Errorf("service.PhotoService.Import: %w", err)
	}
	return len(photos), nil
}

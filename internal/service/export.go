package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/repo"
)

// ExportService assembles a full flat export of all saved trips and their days.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per saved-trip day across all trips.
// Trips with no persisted days contribute one row with empty day fields.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		days, err := s.trips.ListDays(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}

		base := domain.ExportRow{
			TripID:        t.ID.String(),
			TripName:      t.Name,
			TripStartDate: t.StartDate.Format("2006-01-02"),
			TripCountry:   t.Country,
		}
		if t.EndDate != nil {
			base.TripEndDate = t.EndDate.Format("2006-01-02")
		}

		if len(days) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, d := range days {
			row := base
			row.Date = d.Date.Format("2006-01-02")
			row.Lat = d.Centroid.Lat
			row.Lon = d.Centroid.Lon
			row.City = d.City
			row.Country = d.Country
			row.PhotoCount = d.PhotoCount
			rows = append(rows, row)
		}
	}
	return rows, nil
}

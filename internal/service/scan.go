package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/trip-scout/internal/cluster"
	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geocode"
	"github.com/pkordes/trip-scout/internal/repo"
)

// ScanService runs the full detection pipeline: load photos for a window,
// resolve place labels, filter to trip photos, cluster days, group trips,
// and suppress candidates the user has already saved.
//
// The clustering engine itself is pure; this service is the shell around it
// that does the I/O.
type ScanService struct {
	photos   repo.PhotoRepo
	trips    repo.TripRepo
	resolver geocode.Resolver
	cfg      cluster.Config
	home     domain.Coordinate
	log      *slog.Logger
}

// NewScanService constructs a ScanService. home is the user's home or
// neighborhood center used by the inclusion filter; resolver may be nil, in
// which case every photo gets the neutral "Unknown" place.
func NewScanService(photos repo.PhotoRepo, trips repo.TripRepo, resolver geocode.Resolver, cfg cluster.Config, home domain.Coordinate, log *slog.Logger) *ScanService {
	if log == nil {
		log = slog.Default()
	}
	return &ScanService{photos: photos, trips: trips, resolver: resolver, cfg: cfg, home: home, log: log}
}

// ScanRequest bounds one scan invocation.
type ScanRequest struct {
	From time.Time
	To   time.Time
	// Home overrides the configured home center for this scan only.
	Home *domain.Coordinate
}

// DayDraft is one day of a drafted trip: its cluster, the grouping decision
// that placed it, and the place stops inferred within it.
type DayDraft struct {
	Cluster domain.DayCluster  `json:"cluster"`
	Reason  domain.MergeReason `json:"reason"`
	Stops   []domain.PlaceStop `json:"stops"`
}

// TripDraft is one presentable trip candidate, ready for the blog-draft UI.
type TripDraft struct {
	SourceID  string    `json:"source_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Country   string    `json:"country"`
	Days      []DayDraft `json:"days"`
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	PhotoCount     int         `json:"photo_count"`      // photos in the window
	TripPhotoCount int         `json:"trip_photo_count"` // photos that qualified
	Suppressed     int         `json:"suppressed"`       // candidates hidden as already saved
	Drafts         []TripDraft `json:"drafts"`
}

// Scan runs the pipeline for one time window.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return ScanResult{}, fmt.Errorf("%w: scan window must satisfy from < to", domain.ErrValidation)
	}

	home := s.home
	if req.Home != nil {
		home = *req.Home
	}

	photos, err := s.photos.ListByWindow(ctx, req.From, req.To)
	if err != nil {
		return ScanResult{}, fmt.Errorf("service.ScanService.Scan: %w", err)
	}

	var qualified []domain.PhotoRecord
	for _, p := range photos {
		if cluster.ShouldInclude(p.Coord, home, s.cfg.MinTripMiles) {
			qualified = append(qualified, p)
		}
	}

	// Resolve labels only for photos that survived the filter — the filter
	// is pure geometry, and home-area photos would waste rate-limited
	// geocoder requests.
	s.resolvePlaces(ctx, qualified)

	days := cluster.BuildDayClusters(qualified, s.cfg)
	candidates := cluster.GroupTrips(days, s.cfg)

	saved, err := s.trips.List(ctx)
	if err != nil {
		return ScanResult{}, fmt.Errorf("service.ScanService.Scan: %w", err)
	}

	result := ScanResult{
		PhotoCount:     len(photos),
		TripPhotoCount: len(qualified),
		Drafts:         []TripDraft{},
	}
	for _, c := range candidates {
		if cluster.IsAlreadySaved(c, saved, s.cfg) {
			result.Suppressed++
			continue
		}
		result.Drafts = append(result.Drafts, s.buildDraft(c))
	}

	s.log.InfoContext(ctx, "scan complete",
		"from", req.From,
		"to", req.To,
		"photos", result.PhotoCount,
		"trip_photos", result.TripPhotoCount,
		"drafts", len(result.Drafts),
		"suppressed", result.Suppressed,
	)
	return result, nil
}

// resolvePlaces fills in place labels for every located photo. A failed
// resolution degrades to the neutral place rather than failing the scan —
// the engine treats "Unknown" like any other label.
func (s *ScanService) resolvePlaces(ctx context.Context, photos []domain.PhotoRecord) {
	for i := range photos {
		if photos[i].Coord == nil {
			continue
		}
		if s.resolver == nil {
			photos[i].Place = geocode.Neutral()
			continue
		}
		place, err := s.resolver.Resolve(ctx, *photos[i].Coord)
		if err != nil {
			s.log.WarnContext(ctx, "geocode failed, using neutral place",
				"photo_id", photos[i].ID, "error", err)
			place = geocode.Neutral()
		}
		photos[i].Place = place
	}
}

// buildDraft turns an accepted candidate into its presentable form,
// including per-day place stops for the draft builder.
func (s *ScanService) buildDraft(c domain.TripCandidate) TripDraft {
	days := make([]DayDraft, len(c.Days))
	for i, d := range c.Days {
		days[i] = DayDraft{
			Cluster: d.Cluster,
			Reason:  d.Reason,
			Stops:   cluster.BuildPlaceStops(d.Cluster.Photos, s.cfg),
		}
	}
	return TripDraft{
		SourceID:  c.SourceID,
		Name:      c.SuggestedName(),
		StartDate: c.StartDate(),
		EndDate:   c.EndDate(),
		Country:   c.DominantCountry(),
		Days:      days,
	}
}

// Package handler implements the HTTP handlers for the Trip Scout API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, scan.go, trip.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/service"
)

// PhotoServicer defines the import operation the photo handler depends on.
// Defining interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PhotoServicer interface {
	Import(ctx context.Context, photos []domain.PhotoRecord) (int, error)
}

// ScanServicer defines the scan operation the scan handler depends on.
type ScanServicer interface {
	Scan(ctx context.Context, req service.ScanRequest) (service.ScanResult, error)
}

// TripServicer defines the business operations the trip handler depends on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds every handler dependency.
type Server struct {
	photos  PhotoServicer
	scans   ScanServicer
	trips   TripServicer
	export  ExportServicer
	openapi []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the embedded spec served at /openapi.yaml; may be nil.
func NewServer(photos PhotoServicer, scans ScanServicer, trips TripServicer, export ExportServicer, openapi []byte) *Server {
	return &Server{photos: photos, scans: scans, trips: trips, export: export, openapi: openapi}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/photos", s.ImportPhotos)
	r.Post("/scans", s.RunScan)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/{id}", s.GetTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Get("/export", s.GetExport)

	return r
}

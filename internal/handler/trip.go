package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-scout/internal/domain"
)

// CreateTripRequest is the body of POST /trips: a scan candidate the user
// accepted, flattened to what the server persists.
type CreateTripRequest struct {
	SourceID  string              `json:"source_id"`
	Name      string              `json:"name"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	Country   *string             `json:"country,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	Days      []TripDayPayload    `json:"days,omitempty"`
}

// TripDayPayload is one persisted day summary in a create request.
type TripDayPayload struct {
	Date       openapi_types.Date `json:"date"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	City       *string            `json:"city,omitempty"`
	Country    *string            `json:"country,omitempty"`
	PhotoCount *int               `json:"photo_count,omitempty"`
}

// TripResponse is the wire form of a saved trip.
type TripResponse struct {
	ID        uuid.UUID           `json:"id"`
	SourceID  string              `json:"source_id"`
	Name      string              `json:"name"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	Country   *string             `json:"country,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Days      []TripDayResponse   `json:"days,omitempty"`
}

// TripDayResponse is the wire form of one persisted day summary.
type TripDayResponse struct {
	ID         uuid.UUID          `json:"id"`
	Date       openapi_types.Date `json:"date"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	City       string             `json:"city,omitempty"`
	Country    string             `json:"country,omitempty"`
	PhotoCount int                `json:"photo_count"`
}

// Pagination echoes the effective paging parameters on list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListTripsResponse is the body of GET /trips.
type ListTripsResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := make([]TripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, ListTripsResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("trip not found"))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// queryInt reads an integer query parameter, nil when absent or malformed.
func queryInt(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
func requestToTrip(req CreateTripRequest) domain.Trip {
	t := domain.Trip{
		SourceID:  req.SourceID,
		Name:      req.Name,
		StartDate: req.StartDate.Time,
	}
	if req.EndDate != nil {
		ed := req.EndDate.Time
		t.EndDate = &ed
	}
	if req.Country != nil {
		t.Country = *req.Country
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	for _, d := range req.Days {
		day := domain.TripDaySummary{
			Date:     d.Date.Time,
			Centroid: domain.Coordinate{Lat: d.Lat, Lon: d.Lon},
		}
		if d.City != nil {
			day.City = *d.City
		}
		if d.Country != nil {
			day.Country = *d.Country
		}
		if d.PhotoCount != nil {
			day.PhotoCount = *d.PhotoCount
		}
		t.Days = append(t.Days, day)
	}
	return t
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) TripResponse {
	resp := TripResponse{
		ID:        t.ID,
		SourceID:  t.SourceID,
		Name:      t.Name,
		StartDate: openapi_types.Date{Time: t.StartDate},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.EndDate != nil {
		ed := openapi_types.Date{Time: *t.EndDate}
		resp.EndDate = &ed
	}
	if t.Country != "" {
		resp.Country = &t.Country
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	for _, d := range t.Days {
		resp.Days = append(resp.Days, TripDayResponse{
			ID:         d.ID,
			Date:       openapi_types.Date{Time: d.Date},
			Lat:        d.Centroid.Lat,
			Lon:        d.Centroid.Lon,
			City:       d.City,
			Country:    d.Country,
			PhotoCount: d.PhotoCount,
		})
	}
	return resp
}

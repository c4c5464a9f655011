package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
)

// ImportPhotosRequest is the body of POST /photos.
type ImportPhotosRequest struct {
	Photos []PhotoPayload `json:"photos"`
}

// PhotoPayload is one photo's metadata as sent by the on-device library
// exporter. Lat and Lon must be present together or not at all.
type PhotoPayload struct {
	ID      string    `json:"id"`
	TakenAt time.Time `json:"taken_at"`
	Lat     *float64  `json:"lat,omitempty"`
	Lon     *float64  `json:"lon,omitempty"`
}

// ImportPhotosResponse reports how many records were written.
type ImportPhotosResponse struct {
	Imported int `json:"imported"`
}

// ImportPhotos handles POST /photos.
func (s *Server) ImportPhotos(w http.ResponseWriter, r *http.Request) {
	var req ImportPhotosRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	photos := make([]domain.PhotoRecord, 0, len(req.Photos))
	for _, p := range req.Photos {
		if (p.Lat == nil) != (p.Lon == nil) {
			writeJSON(w, http.StatusUnprocessableEntity,
				requestBody("lat and lon must be provided together"))
			return
		}
		rec := domain.PhotoRecord{ID: p.ID, TakenAt: p.TakenAt}
		if p.Lat != nil {
			rec.Coord = &domain.Coordinate{Lat: *p.Lat, Lon: *p.Lon}
		}
		photos = append(photos, rec)
	}

	count, err := s.photos.Import(r.Context(), photos)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ImportPhotosResponse{Imported: count})
}

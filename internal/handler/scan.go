package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/service"
)

// RunScanRequest is the body of POST /scans: the time window to analyze and
// an optional home-center override for the inclusion filter.
type RunScanRequest struct {
	From time.Time          `json:"from"`
	To   time.Time          `json:"to"`
	Home *domain.Coordinate `json:"home,omitempty"`
}

// RunScan handles POST /scans. The scan is synchronous: the engine completes
// in time proportional to the window's photo count, and the response carries
// the ready-to-present trip drafts.
func (s *Server) RunScan(w http.ResponseWriter, r *http.Request) {
	var req RunScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	result, err := s.scans.Scan(r.Context(), service.ScanRequest{
		From: req.From,
		To:   req.To,
		Home: req.Home,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

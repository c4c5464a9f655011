package handler

import (
	"net/http"

	"github.com/pkordes/trip-scout/internal/domain"
)

// ExportResponse wraps the flat export rows.
type ExportResponse struct {
	Rows []domain.ExportRow `json:"rows"`
}

// GetExport handles GET /export, returning one flat row per saved-trip day,
// suitable for feeding a blog-draft generator.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	writeJSON(w, http.StatusOK, ExportResponse{Rows: rows})
}

package gateway

import (
	"net/http"
	"strings"

	"github.com/WheelTrack/WheelTrack/internal/maintenance"
)

func (s *Server) handleMaintenances(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		out := s.maintenances.Filtered(r.Context(), maintenance.Filter{
			SearchText:    q.Get("q"),
			VehicleFilter: q.Get("vehicle"),
		})
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var m maintenance.Maintenance
		if !readJSON(w, r, &m) {
			return
		}
		saved, err := s.maintenances.Add(r.Context(), m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleMaintenanceByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/maintenances/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		m, ok := s.maintenances.Get(r.Context(), id)
		if !ok {
			writeError(w, http.StatusNotFound, "maintenance not found")
			return
		}
		writeJSON(w, http.StatusOK, m)
	case http.MethodPut:
		var m maintenance.Maintenance
		if !readJSON(w, r, &m) {
			return
		}
		m.ID = id
		saved, err := s.maintenances.Update(r.Context(), m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.maintenances.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

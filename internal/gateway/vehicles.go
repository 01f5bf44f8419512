package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/rental"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.vehicles.List(r.Context()))
	case http.MethodPost:
		var v vehicle.Vehicle
		if !readJSON(w, r, &v) {
			return
		}
		saved, err := s.vehicles.Add(r.Context(), v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /v1/vehicles/{id}[/contracts|/rental-status]
func (s *Server) handleVehicleByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/vehicles/")
	id, sub, _ := strings.Cut(rest, "/")
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, http.StatusBadRequest, "vehicle id required")
		return
	}

	switch sub {
	case "contracts":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, s.rentals.ContractsForVehicle(r.Context(), id))
		return
	case "rental-status":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		now := time.Now()
		contracts := s.rentals.ContractsForVehicle(r.Context(), id)
		statuses := make(map[string]rental.Status, len(contracts))
		for _, c := range contracts {
			statuses[c.ID] = c.StatusAt(now)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"vehicle_id": id,
			"status":     rental.SummaryStatus(contracts, now),
			"contracts":  statuses,
		})
		return
	case "":
		// 落到下面的单记录 CRUD
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		v, ok := s.vehicles.Get(r.Context(), id)
		if !ok {
			writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		writeJSON(w, http.StatusOK, v)
	case http.MethodPut:
		var v vehicle.Vehicle
		if !readJSON(w, r, &v) {
			return
		}
		v.ID = id
		saved, err := s.vehicles.Update(r.Context(), v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.vehicles.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

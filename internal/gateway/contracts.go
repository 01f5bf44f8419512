package gateway

import (
	"net/http"
	"strings"

	"github.com/WheelTrack/WheelTrack/internal/rental"
)

func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.rentals.List(r.Context()))
	case http.MethodPost:
		var c rental.Contract
		if !readJSON(w, r, &c) {
			return
		}
		saved, err := s.rentals.Add(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleContractValidate 表单侧预校验：只返回结构化结果，不落库。
func (s *Server) handleContractValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var c rental.Contract
	if !readJSON(w, r, &c) {
		return
	}
	writeJSON(w, http.StatusOK, s.rentals.ValidateContract(c))
}

func (s *Server) handleContractByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/contracts/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, ok := s.rentals.Get(r.Context(), id)
		if !ok {
			writeError(w, http.StatusNotFound, "contract not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var c rental.Contract
		if !readJSON(w, r, &c) {
			return
		}
		c.ID = id
		saved, err := s.rentals.Update(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.rentals.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

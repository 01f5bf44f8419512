package gateway

import (
	"net/http"
	"strings"

	"github.com/WheelTrack/WheelTrack/internal/expense"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		out := s.expenses.Filtered(r.Context(), expense.Filter{
			SearchText: q.Get("q"),
			VehicleID:  q.Get("vehicle_id"),
			Category:   expense.Category(q.Get("category")),
		})
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var e expense.Expense
		if !readJSON(w, r, &e) {
			return
		}
		saved, err := s.expenses.Add(r.Context(), e)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExpenseImport 外部数据导入：maintenance 类支出会经协调器
// 同步进维修日志（反向一次性 upsert）。
func (s *Server) handleExpenseImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.importLimiter != nil && !s.importLimiter.Allow(r.Context()) {
		writeError(w, http.StatusTooManyRequests, "import rate limit exceeded")
		return
	}
	var e expense.Expense
	if !readJSON(w, r, &e) {
		return
	}
	saved, err := s.coordinator.ImportExpense(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/expenses/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, ok := s.expenses.Get(r.Context(), id)
		if !ok {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, e)
	case http.MethodPut:
		var e expense.Expense
		if !readJSON(w, r, &e) {
			return
		}
		e.ID = id
		saved, err := s.expenses.Update(r.Context(), e)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.expenses.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

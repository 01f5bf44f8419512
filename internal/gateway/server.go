// Package gateway 提供核心服务之上的 HTTP JSON 接口。
// 业务 proto 就绪后这层会换成 grpc-gateway；当前先用标准库 mux 直连核心。
package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/common/middleware"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/maintenance"
	"github.com/WheelTrack/WheelTrack/internal/rental"
	"github.com/WheelTrack/WheelTrack/internal/syncer"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

// Server HTTP 网关。
type Server struct {
	vehicles     *vehicle.Registry
	expenses     *expense.Ledger
	maintenances *maintenance.Log
	rentals      *rental.Manager
	coordinator  *syncer.Coordinator
	log          logger.Logger

	// 全局令牌桶；导入接口另加滑动窗口（批量导入更容易打爆写路径）
	limiter       middleware.RateLimiter
	importLimiter middleware.RateLimiter
}

func NewServer(
	vehicles *vehicle.Registry,
	expenses *expense.Ledger,
	maintenances *maintenance.Log,
	rentals *rental.Manager,
	coordinator *syncer.Coordinator,
	log logger.Logger,
) *Server {
	return &Server{
		vehicles:      vehicles,
		expenses:      expenses,
		maintenances:  maintenances,
		rentals:       rentals,
		coordinator:   coordinator,
		log:           log,
		limiter:       middleware.NewTokenBucket(200, 100),
		importLimiter: middleware.NewSlidingWindow(time.Minute, 60),
	}
}

// Handler 组装路由并套上限流。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/v1/vehicles", s.handleVehicles)
	mux.HandleFunc("/v1/vehicles/", s.handleVehicleByID)
	mux.HandleFunc("/v1/expenses", s.handleExpenses)
	mux.HandleFunc("/v1/expenses/import", s.handleExpenseImport)
	mux.HandleFunc("/v1/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/v1/maintenances", s.handleMaintenances)
	mux.HandleFunc("/v1/maintenances/", s.handleMaintenanceByID)
	mux.HandleFunc("/v1/contracts", s.handleContracts)
	mux.HandleFunc("/v1/contracts/validate", s.handleContractValidate)
	mux.HandleFunc("/v1/contracts/", s.handleContractByID)

	return s.rateLimited(mux)
}

func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(r.Context()) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

// Package httpapi exposes the current league snapshot over a read-only HTTP API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/pfrederiksen/dieliga/internal/logger"
)

// NewRouter wires all routes. metricsHandler may be nil.
func NewRouter(handler *Handler, metricsHandler http.Handler, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/snapshot", handler.GetSnapshot)
	mux.HandleFunc("GET /api/sensors", handler.ListSensors)
	mux.HandleFunc("GET /api/standings/{team}", handler.GetStanding)
	mux.HandleFunc("GET /api/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /api/calendar", handler.ListCalendar)
	mux.HandleFunc("GET /calendar.ics", handler.GetICS)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return RequestLogging(log, recoverPanic(log, mux))
}

// NewServer returns an http.Server for addr with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func RequestLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug("http request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"remote_addr": r.RemoteAddr,
			"duration_ms": time.Since(started).Milliseconds(),
		})
	})
}

func recoverPanic(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", logger.Fields{"path": r.URL.Path, "panic": rec}, nil)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Package api provides the HTTP server for Royal Guard.
// All game routes live under /api/v1 and exchange JSON; every mutating
// route answers with the updated child document.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/health"
	"github.com/royal-guard/royalguard/internal/infra/metrics"
)

// Server is the Royal Guard HTTP API server.
type Server struct {
	svc            *family.Service
	log            *zap.Logger
	health         *health.Checker
	metricsEnabled bool
	corsOrigins    []string
}

// NewServer creates a new API server.
func NewServer(svc *family.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log.With(zap.String("component", "api"))}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the checker whose results /health reports.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// SetCORSOrigins restricts Access-Control-Allow-Origin. Empty allows any.
func (s *Server) SetCORSOrigins(origins []string) { s.corsOrigins = origins }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Route("/children", func(r chi.Router) {
			r.Post("/", s.handleCreateChild)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetChild)
				r.Patch("/", s.handleUpdateChild)
				r.Delete("/", s.handleDeleteChild)
				r.Get("/level", s.handleLevel)
				r.Get("/summary", s.handleSummary)
				r.Post("/water", s.handleWater)
				r.Post("/habit", s.handleHabit)
				r.Post("/poop", s.handlePoop)
				r.Post("/gacha", s.handleGacha)
				r.Post("/rewards/{rewardID}/redeem", s.handleRedeem)
			})
		})

		r.Route("/parents", func(r chi.Router) {
			r.Post("/", s.handleCreateParent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetParent)
				r.Get("/children", s.handleListChildren)
				r.Post("/children", s.handleAddChild)
				r.Post("/children/{childID}", s.handleLinkChild)
				r.Get("/rewards", s.handleListRewards)
				r.Post("/rewards", s.handleAddReward)
				r.Put("/rewards/{itemID}", s.handleEditReward)
				r.Delete("/rewards/{itemID}", s.handleDeleteReward)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, code := "ok", http.StatusOK
	if !s.health.IsHealthy() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    kind,
		},
	})
}

// corsMiddleware adds CORS headers for the parent dashboard.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if len(s.corsOrigins) == 0 {
		return "*"
	}
	for _, o := range s.corsOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return origin
		}
	}
	return s.corsOrigins[0]
}

// instrument records latency per route pattern and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestLatency.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/middleware"
)

const requestTimeout = 30 * time.Second

type RouterConfig struct {
	AllowedOrigins []string
	WriteRateLimit float64
	Logger         *zap.Logger
}

// NewRouter assembles the middleware chain and mounts every route group.
func NewRouter(cfg RouterConfig, groups ...Mounter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.WriteRateLimit(cfg.WriteRateLimit))
	r.Use(chimw.Timeout(requestTimeout))

	r.Handle("/metrics", promhttp.Handler())
	for _, g := range groups {
		g.Mount(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Logger, http.StatusNotFound, ErrorResponse{Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})
	return r
}

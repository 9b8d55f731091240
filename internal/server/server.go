package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/resistor/internal/analytics"
	"github.com/dukerupert/resistor/internal/handler"
	"github.com/dukerupert/resistor/internal/metrics"
	"github.com/dukerupert/resistor/internal/middleware"
	"github.com/dukerupert/resistor/internal/store"
)

// Per-client budget for POST /import.
const (
	importLimit  = 10
	importWindow = time.Minute
)

type Server struct {
	db         *sql.DB
	habitH     *handler.HabitHandler
	eventH     *handler.EventHandler
	settingsH  *handler.SettingsHandler
	analyticsH *handler.AnalyticsHandler
	bundleH    *handler.BundleHandler
	engine     *analytics.Engine
	metrics    *metrics.Metrics
	importRL   *middleware.RateLimiter
	logger     *slog.Logger
}

func New(db *sql.DB, window analytics.Window, logger *slog.Logger) *Server {
	habitStore := store.NewHabitStore(db)
	eventStore := store.NewEventStore(db)
	settingsStore := store.NewSettingsStore(db)
	bundleStore := store.NewBundleStore(db)

	m := metrics.New()
	engine := analytics.NewEngine(habitStore, eventStore, window)

	return &Server{
		db:         db,
		habitH:     handler.NewHabitHandler(habitStore, logger.With("component", "habit")),
		eventH:     handler.NewEventHandler(eventStore, settingsStore, m, logger.With("component", "event")),
		settingsH:  handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		analyticsH: handler.NewAnalyticsHandler(engine, m, logger.With("component", "analytics")),
		bundleH:    handler.NewBundleHandler(bundleStore, logger.With("component", "bundle")),
		engine:     engine,
		metrics:    m,
		importRL:   middleware.NewRateLimiter(importLimit, importWindow),
		logger:     logger,
	}
}

// Engine returns the analytics engine backing GET /analytics.
func (s *Server) Engine() *analytics.Engine {
	return s.engine
}

// RateLimiter returns the limiter guarding POST /import.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.importRL
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /habits", s.habitH.List)
	mux.HandleFunc("POST /habits", s.habitH.Create)
	mux.HandleFunc("GET /habits/{id}", s.habitH.Get)
	mux.HandleFunc("PATCH /habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /habits/{id}", s.habitH.Delete)

	mux.HandleFunc("GET /events", s.eventH.List)
	mux.HandleFunc("POST /events", s.eventH.Create)

	mux.HandleFunc("GET /settings", s.settingsH.Get)
	mux.HandleFunc("PATCH /settings", s.settingsH.Update)

	mux.HandleFunc("GET /analytics", s.analyticsH.Get)

	mux.HandleFunc("GET /export", s.bundleH.Export)
	mux.Handle("POST /import", middleware.Limit(s.importRL)(http.HandlerFunc(s.bundleH.Import)))

	h := s.metrics.Instrument(mux)
	h = middleware.CORS(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}` + "\n"))
		return
	}
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/resistor/internal/metrics"
	"github.com/dukerupert/resistor/internal/model"
)

type analyticsComputer interface {
	Compute(ctx context.Context, now time.Time) ([]model.AnalyticsRow, error)
}

type AnalyticsHandler struct {
	engine  analyticsComputer
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewAnalyticsHandler(engine analyticsComputer, m *metrics.Metrics, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, metrics: m, logger: logger, now: time.Now}
}

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rows, err := h.engine.Compute(r.Context(), h.now())
	h.metrics.ObserveAnalytics(time.Since(start), err)
	if err != nil {
		h.logger.Error("failed to compute analytics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}
	if rows == nil {
		rows = []model.AnalyticsRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

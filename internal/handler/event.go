package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/resistor/internal/metrics"
	"github.com/dukerupert/resistor/internal/model"
	"github.com/dukerupert/resistor/internal/store"
)

type EventHandler struct {
	eventStore    *store.EventStore
	settingsStore *store.SettingsStore
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func NewEventHandler(es *store.EventStore, ss *store.SettingsStore, m *metrics.Metrics, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, settingsStore: ss, metrics: m, logger: logger}
}

// eventRequest uses pointers so missing required fields are detectable.
// occurred_at is optional and lets clients backfill or replay events.
type eventRequest struct {
	HabitID    *int64     `json:"habit_id"`
	Success    *bool      `json:"success"`
	OccurredAt *time.Time `json:"occurred_at"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Note       *string    `json:"note"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HabitID == nil {
		writeError(w, http.StatusBadRequest, "habit_id is required")
		return
	}
	if req.Success == nil {
		writeError(w, http.StatusBadRequest, "success is required")
		return
	}

	settings, err := h.settingsStore.Get(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "settings", "get")
		return
	}

	ev := model.Event{
		HabitID: *req.HabitID,
		Success: *req.Success,
		Note:    req.Note,
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = req.OccurredAt.UTC()
	}
	// With location capture off, coordinates the client sent anyway are
	// not persisted.
	if settings.CaptureLocation {
		ev.Latitude = req.Latitude
		ev.Longitude = req.Longitude
	}

	stored, err := h.eventStore.Append(r.Context(), ev)
	if err != nil {
		writeStoreError(w, h.logger, err, "event", "create")
		return
	}

	h.metrics.RecordEvent(stored.Success)
	h.logger.Debug("event appended", "event_id", stored.ID, "habit_id", stored.HabitID, "success", stored.Success)
	writeJSON(w, http.StatusCreated, stored)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventStore.List(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "events", "list")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

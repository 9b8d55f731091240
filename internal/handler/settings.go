package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/resistor/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.Get(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "settings", "get")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CaptureLocation *bool `json:"capture_location"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CaptureLocation == nil {
		writeError(w, http.StatusBadRequest, "capture_location is required")
		return
	}

	settings, err := h.settingsStore.Update(r.Context(), *req.CaptureLocation)
	if err != nil {
		writeStoreError(w, h.logger, err, "settings", "update")
		return
	}

	h.logger.Info("settings updated", "capture_location", settings.CaptureLocation)
	writeJSON(w, http.StatusOK, settings)
}

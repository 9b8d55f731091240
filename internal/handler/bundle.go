package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/resistor/internal/model"
	"github.com/dukerupert/resistor/internal/store"
)

type BundleHandler struct {
	store  *store.BundleStore
	logger *slog.Logger
}

func NewBundleHandler(s *store.BundleStore, logger *slog.Logger) *BundleHandler {
	return &BundleHandler{store: s, logger: logger}
}

func (h *BundleHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Export(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "data", "export")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BundleHandler) Import(w http.ResponseWriter, r *http.Request) {
	var b model.Bundle
	if !decodeJSON(w, r, &b) {
		return
	}

	res, err := h.store.Import(r.Context(), b)
	if err != nil {
		writeStoreError(w, h.logger, err, "data", "import")
		return
	}

	h.logger.Info("import finished", "habits", res.Habits, "events", res.Events)
	writeJSON(w, http.StatusOK, res)
}

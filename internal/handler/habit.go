package handler

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/dukerupert/resistor/internal/model"
	"github.com/dukerupert/resistor/internal/store"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HabitHandler struct {
	store  *store.HabitStore
	logger *slog.Logger
}

func NewHabitHandler(s *store.HabitStore, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{store: s, logger: logger}
}

func validColor(c *string) bool {
	return c == nil || *c == "" || hexColorRegexp.MatchString(*c)
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "habits", "list")
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	habit, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err, "habit", "get")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.HabitFields
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validColor(req.Color) {
		writeError(w, http.StatusBadRequest, "color must be a hex color (e.g. #FF0000)")
		return
	}

	habit, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeStoreError(w, h.logger, err, "habit", "create")
		return
	}

	h.logger.Info("habit created", "habit_id", habit.ID)
	writeJSON(w, http.StatusCreated, habit)
}

// Update applies the fields present in the body and leaves the rest as
// stored. Absent and null fields are both left untouched; "" blanks a text
// field.
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req model.HabitFields
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validColor(req.Color) {
		writeError(w, http.StatusBadRequest, "color must be a hex color (e.g. #FF0000)")
		return
	}

	habit, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		writeStoreError(w, h.logger, err, "habit", "update")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, h.logger, err, "habit", "delete")
		return
	}

	h.logger.Info("habit deleted", "habit_id", id)
	w.WriteHeader(http.StatusNoContent)
}

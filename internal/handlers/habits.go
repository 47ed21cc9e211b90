package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// Habits are per-profile, not shared catalog entries; the list route
// is scoped by the owner's external id.

type HabitHandler struct {
	habits store.HabitStore
	san    *services.Sanitizer
}

func NewHabitHandler(habits store.HabitStore, san *services.Sanitizer) *HabitHandler {
	return &HabitHandler{habits: habits, san: san}
}

func (h *HabitHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habits.ListByOwner(r.Context(), urlParam(r, "externalID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habits.GetByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

type createHabitRequest struct {
	Name      string                `json:"name"`
	Frequency models.HabitFrequency `json:"frequency"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	habit, err := h.habits.Create(r.Context(), models.Habit{
		Name:            h.san.Clean(req.Name),
		Frequency:       req.Frequency,
		OwnerExternalID: urlParam(r, "externalID"),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

type updateHabitRequest struct {
	Name      *string                `json:"name"`
	Frequency *models.HabitFrequency `json:"frequency"`
	Progress  *int                   `json:"progress"`
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.HabitUpdate{Frequency: req.Frequency, Progress: req.Progress}
	upd.Name = h.san.CleanPtr(req.Name)

	habit, err := h.habits.Update(r.Context(), urlParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.habits.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

type EventHandler struct {
	events store.EventStore
	san    *services.Sanitizer
}

func NewEventHandler(events store.EventStore, san *services.Sanitizer) *EventHandler {
	return &EventHandler{events: events, san: san}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ListUpcoming returns events dated today or later, soonest first.
func (h *EventHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUpcoming(r.Context(), time.Now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.GetByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type createEventRequest struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	e, err := h.events.Create(r.Context(), models.Event{
		Name:        h.san.Clean(req.Name),
		Date:        req.Date,
		Location:    h.san.Clean(req.Location),
		Description: h.san.Clean(req.Description),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

type updateEventRequest struct {
	Name        *string    `json:"name"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.EventUpdate{Date: req.Date}
	upd.Name = h.san.CleanPtr(req.Name)
	upd.Location = h.san.CleanPtr(req.Location)
	upd.Description = h.san.CleanPtr(req.Description)

	e, err := h.events.Update(r.Context(), urlParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAttendee records externalID on the event's attendee set. Adding
// a present id is a no-op; the response is the refreshed event.
func (h *EventHandler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.AddAttendee(r.Context(), urlParam(r, "id"), urlParam(r, "externalID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.RemoveAttendee(r.Context(), urlParam(r, "id"), urlParam(r, "externalID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

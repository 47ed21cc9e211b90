package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
)

// Membership endpoints add a catalog id to one of the profile's three
// sets. Adding an id that is already present is a quiet no-op; the
// response is the refreshed aggregate either way so clients can swap
// their cached copy wholesale.

type enrollRequest struct {
	CourseID string `json:"course_id"`
}

func (h *ProfileHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.CourseID == "" {
		writeError(w, http.StatusBadRequest, "course_id is required")
		return
	}
	h.addToSet(w, r, externalID, models.SetCourses, req.CourseID)
}

type favoriteRequest struct {
	ResourceID string `json:"resource_id"`
}

func (h *ProfileHandler) FavoriteResource(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ResourceID == "" {
		writeError(w, http.StatusBadRequest, "resource_id is required")
		return
	}
	h.addToSet(w, r, externalID, models.SetResources, req.ResourceID)
}

type registerEventRequest struct {
	EventID string `json:"event_id"`
}

func (h *ProfileHandler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req registerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	h.addToSet(w, r, externalID, models.SetEvents, req.EventID)
}

func (h *ProfileHandler) addToSet(w http.ResponseWriter, r *http.Request, externalID string, set models.MembershipSet, targetID string) {
	p, err := h.profiles.AddToSet(r.Context(), externalID, set, targetID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.encSvc.DecryptProfile(p); err != nil {
		writeError(w, http.StatusInternalServerError, "could not decrypt profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// ProfileHandler serves the profile aggregate: scalar fields, the four
// nested collections, and the three membership sets.
type ProfileHandler struct {
	profiles store.ProfileStore
	encSvc   *services.EncryptionService
	san      *services.Sanitizer
}

func NewProfileHandler(profiles store.ProfileStore, encSvc *services.EncryptionService, san *services.Sanitizer) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, encSvc: encSvc, san: san}
}

// Get returns the full aggregate for one external subject id
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	p, err := h.profiles.Get(r.Context(), externalID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.encSvc.DecryptProfile(p); err != nil {
		writeError(w, http.StatusInternalServerError, "could not decrypt profile data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createProfileRequest struct {
	ExternalID string `json:"external_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

// Create registers a new aggregate for an identity-provider subject.
// Duplicate external ids or emails are rejected with 409; the client's
// fetch-or-create treats that as losing the race and re-fetches.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "external_id is required")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	p, err := h.profiles.Create(r.Context(), req.ExternalID, h.san.Clean(req.FirstName), h.san.Clean(req.LastName), req.Email)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type updateProfileRequest struct {
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Role      *models.Role `json:"role"`
}

// Update sets whitelisted scalar fields only; nested collections are
// never reachable through this path.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.ProfileUpdate{Role: req.Role}
	if req.FirstName != nil {
		cleaned := h.san.Clean(*req.FirstName)
		upd.FirstName = &cleaned
	}
	if req.LastName != nil {
		cleaned := h.san.Clean(*req.LastName)
		upd.LastName = &cleaned
	}

	p, err := h.profiles.UpdateScalarFields(r.Context(), externalID, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.encSvc.DecryptProfile(p); err != nil {
		writeError(w, http.StatusInternalServerError, "could not decrypt profile data")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

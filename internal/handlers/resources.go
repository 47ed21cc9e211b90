package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

type ResourceHandler struct {
	resources store.ResourceStore
	san       *services.Sanitizer
}

func NewResourceHandler(resources store.ResourceStore, san *services.Sanitizer) *ResourceHandler {
	return &ResourceHandler{resources: resources, san: san}
}

// List returns all resources, optionally filtered by ?category=.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	category := models.ResourceCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	resources, err := h.resources.List(r.Context(), category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.resources.GetByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type createResourceRequest struct {
	Title       string                  `json:"title"`
	Category    models.ResourceCategory `json:"category"`
	Link        string                  `json:"link"`
	Description string                  `json:"description"`
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	res, err := h.resources.Create(r.Context(), models.Resource{
		Title:       h.san.Clean(req.Title),
		Category:    req.Category,
		Link:        req.Link,
		Description: h.san.Clean(req.Description),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type updateResourceRequest struct {
	Title       *string                  `json:"title"`
	Category    *models.ResourceCategory `json:"category"`
	Link        *string                  `json:"link"`
	Description *string                  `json:"description"`
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.ResourceUpdate{Category: req.Category, Link: req.Link}
	upd.Title = h.san.CleanPtr(req.Title)
	upd.Description = h.san.CleanPtr(req.Description)

	res, err := h.resources.Update(r.Context(), urlParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.resources.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

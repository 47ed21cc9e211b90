package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

type CourseHandler struct {
	courses store.CourseStore
	san     *services.Sanitizer
}

func NewCourseHandler(courses store.CourseStore, san *services.Sanitizer) *CourseHandler {
	return &CourseHandler{courses: courses, san: san}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.courses.GetByID(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type createCourseRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	c, err := h.courses.Create(r.Context(), models.Course{
		Title:       h.san.Clean(req.Title),
		Description: h.san.Clean(req.Description),
		Instructor:  h.san.Clean(req.Instructor),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type updateCourseRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Instructor  *string    `json:"instructor"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.CourseUpdate{StartDate: req.StartDate, EndDate: req.EndDate}
	upd.Title = h.san.CleanPtr(req.Title)
	upd.Description = h.san.CleanPtr(req.Description)
	upd.Instructor = h.san.CleanPtr(req.Instructor)

	c, err := h.courses.Update(r.Context(), urlParam(r, "id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

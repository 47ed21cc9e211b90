package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// Productivity operations: mood check-ins, the daily planner, brain
// dumps, and focus sessions. All live on the profile aggregate and are
// keyed by the external subject id in the path.

type checkInRequest struct {
	Mood  models.Mood `json:"mood"`
	Notes string      `json:"notes"`
}

// AddCheckIn appends a mood check-in. The server assigns id and
// timestamp; notes are sanitized and encrypted before storage.
func (h *ProfileHandler) AddCheckIn(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "mood is required")
		return
	}

	notes := h.san.Clean(req.Notes)
	tmp := models.CheckIn{Notes: notes}
	if err := h.encSvc.EncryptCheckIn(&tmp); err != nil {
		writeError(w, http.StatusInternalServerError, "could not encrypt notes")
		return
	}

	ci, err := h.profiles.AppendCheckIn(r.Context(), externalID, req.Mood, tmp.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	// Hand back the plaintext, not what went into the DB.
	ci.Notes = notes
	writeJSON(w, http.StatusCreated, ci)
}

func (h *ProfileHandler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	checkIns, err := h.profiles.ListCheckIns(r.Context(), externalID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	for i := range checkIns {
		if err := h.encSvc.DecryptCheckIn(&checkIns[i]); err != nil {
			writeError(w, http.StatusInternalServerError, "could not decrypt notes")
			return
		}
	}
	writeJSON(w, http.StatusOK, checkIns)
}

type plannerEntryRequest struct {
	TimeOfDay string `json:"time_of_day"`
	TaskText  string `json:"task_text"`
}

func (h *ProfileHandler) AddPlannerEntry(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req plannerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.TaskText == "" {
		writeError(w, http.StatusBadRequest, "task_text is required")
		return
	}

	entry, err := h.profiles.AppendPlannerEntry(r.Context(), externalID, req.TimeOfDay, h.san.Clean(req.TaskText))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ProfileHandler) ListPlannerEntries(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	entries, err := h.profiles.ListPlannerEntries(r.Context(), externalID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type updatePlannerEntryRequest struct {
	TimeOfDay *string               `json:"time_of_day"`
	TaskText  *string               `json:"task_text"`
	Status    *models.PlannerStatus `json:"status"`
}

func (h *ProfileHandler) UpdatePlannerEntry(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	entryID := urlParam(r, "entryID")
	var req updatePlannerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	upd := store.PlannerEntryUpdate{TimeOfDay: req.TimeOfDay, Status: req.Status}
	if req.TaskText != nil {
		cleaned := h.san.Clean(*req.TaskText)
		upd.TaskText = &cleaned
	}

	entry, err := h.profiles.UpdatePlannerEntry(r.Context(), externalID, entryID, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *ProfileHandler) DeletePlannerEntry(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	entryID := urlParam(r, "entryID")
	if err := h.profiles.DeletePlannerEntry(r.Context(), externalID, entryID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type brainDumpRequest struct {
	Content string `json:"content"`
}

func (h *ProfileHandler) AddBrainDump(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req brainDumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	content := h.san.Clean(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	tmp := models.BrainDumpEntry{Content: content}
	if err := h.encSvc.EncryptBrainDump(&tmp); err != nil {
		writeError(w, http.StatusInternalServerError, "could not encrypt content")
		return
	}

	entry, err := h.profiles.AppendBrainDump(r.Context(), externalID, tmp.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	entry.Content = content
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ProfileHandler) DeleteBrainDump(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	entryID := urlParam(r, "entryID")
	if err := h.profiles.DeleteBrainDump(r.Context(), externalID, entryID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type focusSessionRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

// AddFocusSession records a completed work interval from the focus timer.
func (h *ProfileHandler) AddFocusSession(w http.ResponseWriter, r *http.Request) {
	externalID := urlParam(r, "externalID")
	var req focusSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be a positive number")
		return
	}

	fs, err := h.profiles.AppendFocusSession(r.Context(), externalID, req.DurationMinutes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fs)
}

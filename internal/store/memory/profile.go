// Package memory implements the store interfaces on mutex-guarded
// maps. It backs tests and database-less development runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// ProfileStore keeps every aggregate in one map keyed by external id.
// All methods deep-copy on the way out so callers can never mutate
// shared state behind the mutex.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
	emails   map[string]string // email -> external id
	nextID   int64
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]*models.Profile),
		emails:   make(map[string]string),
	}
}

var _ store.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Get(ctx context.Context, externalID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *ProfileStore) Create(ctx context.Context, externalID, firstName, lastName, email string) (*models.Profile, error) {
	if externalID == "" || email == "" {
		return nil, fmt.Errorf("external id and email are required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[externalID]; ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrConflict)
	}
	if _, ok := s.emails[email]; ok {
		return nil, fmt.Errorf("email %s: %w", email, models.ErrConflict)
	}

	s.nextID++
	now := time.Now().UTC()
	p := &models.Profile{
		ID:                  s.nextID,
		ExternalID:          externalID,
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		Role:                models.RoleStandard,
		CheckIns:            []models.CheckIn{},
		PlannerEntries:      []models.PlannerEntry{},
		BrainDumpEntries:    []models.BrainDumpEntry{},
		FocusSessions:       []models.FocusSession{},
		EnrolledCourseIDs:   []string{},
		FavoriteResourceIDs: []string{},
		RegisteredEventIDs:  []string{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.profiles[externalID] = p
	s.emails[email] = externalID
	return p.Clone(), nil
}

func (s *ProfileStore) UpdateScalarFields(ctx context.Context, externalID string, upd store.ProfileUpdate) (*models.Profile, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", *upd.Role, models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.Role != nil {
		p.Role = *upd.Role
	}
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func (s *ProfileStore) AppendCheckIn(ctx context.Context, externalID string, mood models.Mood, notes string) (*models.CheckIn, error) {
	if !mood.Valid() {
		return nil, fmt.Errorf("mood %q: %w", mood, models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	now := time.Now().UTC()
	ci := models.CheckIn{ID: uuid.NewString(), Mood: mood, Notes: notes, Timestamp: now}
	p.CheckIns = append(p.CheckIns, ci)
	p.UpdatedAt = now
	return &ci, nil
}

func (s *ProfileStore) ListCheckIns(ctx context.Context, externalID string) ([]models.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	return append([]models.CheckIn{}, p.CheckIns...), nil
}

func (s *ProfileStore) AppendPlannerEntry(ctx context.Context, externalID, timeOfDay, taskText string) (*models.PlannerEntry, error) {
	if taskText == "" {
		return nil, fmt.Errorf("task text is required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	now := time.Now().UTC()
	entry := models.PlannerEntry{
		ID:        uuid.NewString(),
		TimeOfDay: timeOfDay,
		TaskText:  taskText,
		Status:    models.PlannerStatusPending,
		CreatedAt: now,
	}
	p.PlannerEntries = append(p.PlannerEntries, entry)
	p.UpdatedAt = now
	return &entry, nil
}

func (s *ProfileStore) ListPlannerEntries(ctx context.Context, externalID string) ([]models.PlannerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	return append([]models.PlannerEntry{}, p.PlannerEntries...), nil
}

func (s *ProfileStore) UpdatePlannerEntry(ctx context.Context, externalID, entryID string, upd store.PlannerEntryUpdate) (*models.PlannerEntry, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", *upd.Status, models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	for i := range p.PlannerEntries {
		if p.PlannerEntries[i].ID != entryID {
			continue
		}
		e := &p.PlannerEntries[i]
		if upd.TimeOfDay != nil {
			e.TimeOfDay = *upd.TimeOfDay
		}
		if upd.TaskText != nil {
			e.TaskText = *upd.TaskText
		}
		if upd.Status != nil {
			e.Status = *upd.Status
		}
		p.UpdatedAt = time.Now().UTC()
		out := *e
		return &out, nil
	}
	return nil, fmt.Errorf("planner entry %s: %w", entryID, models.ErrNotFound)
}

func (s *ProfileStore) DeletePlannerEntry(ctx context.Context, externalID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	for i := range p.PlannerEntries {
		if p.PlannerEntries[i].ID == entryID {
			p.PlannerEntries = append(p.PlannerEntries[:i], p.PlannerEntries[i+1:]...)
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("planner entry %s: %w", entryID, models.ErrNotFound)
}

func (s *ProfileStore) AppendBrainDump(ctx context.Context, externalID, content string) (*models.BrainDumpEntry, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	now := time.Now().UTC()
	entry := models.BrainDumpEntry{ID: uuid.NewString(), Content: content, CreatedAt: now}
	p.BrainDumpEntries = append(p.BrainDumpEntries, entry)
	p.UpdatedAt = now
	return &entry, nil
}

func (s *ProfileStore) DeleteBrainDump(ctx context.Context, externalID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	for i := range p.BrainDumpEntries {
		if p.BrainDumpEntries[i].ID == entryID {
			p.BrainDumpEntries = append(p.BrainDumpEntries[:i], p.BrainDumpEntries[i+1:]...)
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("brain dump entry %s: %w", entryID, models.ErrNotFound)
}

func (s *ProfileStore) AppendFocusSession(ctx context.Context, externalID string, durationMinutes int) (*models.FocusSession, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	now := time.Now().UTC()
	fs := models.FocusSession{ID: uuid.NewString(), DurationMinutes: durationMinutes, CompletedAt: now}
	p.FocusSessions = append(p.FocusSessions, fs)
	p.UpdatedAt = now
	return &fs, nil
}

func (s *ProfileStore) AddToSet(ctx context.Context, externalID string, set models.MembershipSet, targetID string) (*models.Profile, error) {
	if !set.Valid() {
		return nil, fmt.Errorf("membership set %q: %w", set, models.ErrInvalidArgument)
	}
	if targetID == "" {
		return nil, fmt.Errorf("target id is required: %w", models.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[externalID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}

	var ids *[]string
	switch set {
	case models.SetCourses:
		ids = &p.EnrolledCourseIDs
	case models.SetResources:
		ids = &p.FavoriteResourceIDs
	case models.SetEvents:
		ids = &p.RegisteredEventIDs
	}
	for _, existing := range *ids {
		if existing == targetID {
			// Already a member; add-if-absent is a no-op.
			return p.Clone(), nil
		}
	}
	*ids = append(*ids, targetID)
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

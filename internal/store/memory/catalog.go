package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// NewStores returns a full in-memory store bundle.
func NewStores() store.Stores {
	return store.Stores{
		Profiles:  NewProfileStore(),
		Courses:   NewCourseStore(),
		Events:    NewEventStore(),
		Resources: NewResourceStore(),
		Habits:    NewHabitStore(),
	}
}

type CourseStore struct {
	mu      sync.RWMutex
	courses map[string]models.Course
}

func NewCourseStore() *CourseStore {
	return &CourseStore{courses: make(map[string]models.Course)}
}

var _ store.CourseStore = (*CourseStore)(nil)

func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *CourseStore) GetByID(ctx context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (s *CourseStore) Create(ctx context.Context, c models.Course) (*models.Course, error) {
	if c.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.courses[c.ID] = c
	return &c, nil
}

func (s *CourseStore) Update(ctx context.Context, id string, upd store.CourseUpdate) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Instructor != nil {
		c.Instructor = *upd.Instructor
	}
	if upd.StartDate != nil {
		c.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		c.EndDate = *upd.EndDate
	}
	c.UpdatedAt = time.Now().UTC()
	s.courses[id] = c
	return &c, nil
}

func (s *CourseStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	delete(s.courses, id)
	return nil
}

type EventStore struct {
	mu     sync.RWMutex
	events map[string]*models.Event
}

func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]*models.Event)}
}

var _ store.EventStore = (*EventStore)(nil)

func copyEvent(e *models.Event) *models.Event {
	out := *e
	out.AttendeeIDs = append([]string(nil), e.AttendeeIDs...)
	return &out
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *copyEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *EventStore) ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Event
	for _, e := range s.events {
		if !e.Date.Before(now) {
			out = append(out, *copyEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return copyEvent(e), nil
}

func (s *EventStore) Create(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.Name == "" || e.Date.IsZero() {
		return nil, fmt.Errorf("name and date are required: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.AttendeeIDs = []string{}
	e.CreatedAt = now
	e.UpdatedAt = now
	s.events[e.ID] = &e
	return copyEvent(&e), nil
}

func (s *EventStore) Update(ctx context.Context, id string, upd store.EventUpdate) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	e.UpdatedAt = time.Now().UTC()
	return copyEvent(e), nil
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

func (s *EventStore) AddAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error) {
	if externalID == "" {
		return nil, fmt.Errorf("attendee id is required: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, models.ErrNotFound)
	}
	for _, id := range e.AttendeeIDs {
		if id == externalID {
			return copyEvent(e), nil
		}
	}
	e.AttendeeIDs = append(e.AttendeeIDs, externalID)
	e.UpdatedAt = time.Now().UTC()
	return copyEvent(e), nil
}

func (s *EventStore) RemoveAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, models.ErrNotFound)
	}
	for i, id := range e.AttendeeIDs {
		if id == externalID {
			e.AttendeeIDs = append(e.AttendeeIDs[:i], e.AttendeeIDs[i+1:]...)
			e.UpdatedAt = time.Now().UTC()
			break
		}
	}
	return copyEvent(e), nil
}

type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]models.Resource
}

func NewResourceStore() *ResourceStore {
	return &ResourceStore{resources: make(map[string]models.Resource)}
}

var _ store.ResourceStore = (*ResourceStore)(nil)

func (s *ResourceStore) List(ctx context.Context, category models.ResourceCategory) ([]models.Resource, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("category %q: %w", category, models.ErrInvalidArgument)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Resource, 0, len(s.resources))
	for _, res := range s.resources {
		if category != "" && res.Category != category {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *ResourceStore) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
	}
	return &res, nil
}

func (s *ResourceStore) Create(ctx context.Context, res models.Resource) (*models.Resource, error) {
	if res.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidArgument)
	}
	if !res.Category.Valid() {
		return nil, fmt.Errorf("category %q: %w", res.Category, models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	res.ID = uuid.NewString()
	res.CreatedAt = now
	res.UpdatedAt = now
	s.resources[res.ID] = res
	return &res, nil
}

func (s *ResourceStore) Update(ctx context.Context, id string, upd store.ResourceUpdate) (*models.Resource, error) {
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, fmt.Errorf("category %q: %w", *upd.Category, models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
	}
	if upd.Title != nil {
		res.Title = *upd.Title
	}
	if upd.Category != nil {
		res.Category = *upd.Category
	}
	if upd.Link != nil {
		res.Link = *upd.Link
	}
	if upd.Description != nil {
		res.Description = *upd.Description
	}
	res.UpdatedAt = time.Now().UTC()
	s.resources[id] = res
	return &res, nil
}

func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[id]; !ok {
		return fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
	}
	delete(s.resources, id)
	return nil
}

type HabitStore struct {
	mu     sync.RWMutex
	habits map[string]models.Habit
}

func NewHabitStore() *HabitStore {
	return &HabitStore{habits: make(map[string]models.Habit)}
}

var _ store.HabitStore = (*HabitStore)(nil)

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func (s *HabitStore) ListByOwner(ctx context.Context, ownerExternalID string) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Habit
	for _, h := range s.habits {
		if h.OwnerExternalID == ownerExternalID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *HabitStore) GetByID(ctx context.Context, id string) (*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return nil, fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
	}
	return &h, nil
}

func (s *HabitStore) Create(ctx context.Context, h models.Habit) (*models.Habit, error) {
	if h.Name == "" || h.OwnerExternalID == "" {
		return nil, fmt.Errorf("name and owner are required: %w", models.ErrInvalidArgument)
	}
	if !h.Frequency.Valid() {
		return nil, fmt.Errorf("frequency %q: %w", h.Frequency, models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	h.ID = uuid.NewString()
	h.Progress = clampProgress(h.Progress)
	h.CreatedAt = now
	h.UpdatedAt = now
	s.habits[h.ID] = h
	return &h, nil
}

func (s *HabitStore) Update(ctx context.Context, id string, upd store.HabitUpdate) (*models.Habit, error) {
	if upd.Frequency != nil && !upd.Frequency.Valid() {
		return nil, fmt.Errorf("frequency %q: %w", *upd.Frequency, models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		return nil, fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
	}
	if upd.Name != nil {
		h.Name = *upd.Name
	}
	if upd.Frequency != nil {
		h.Frequency = *upd.Frequency
	}
	if upd.Progress != nil {
		h.Progress = clampProgress(*upd.Progress)
	}
	h.UpdatedAt = time.Now().UTC()
	s.habits[id] = h
	return &h, nil
}

func (s *HabitStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
	}
	delete(s.habits, id)
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

// NewStores returns the full Postgres store bundle over one connection pool.
func NewStores(db *sqlx.DB) store.Stores {
	return store.Stores{
		Profiles:  NewProfileStore(db),
		Courses:   NewCourseStore(db),
		Events:    NewEventStore(db),
		Resources: NewResourceStore(db),
		Habits:    NewHabitStore(db),
	}
}

type CourseStore struct {
	db *sqlx.DB
}

func NewCourseStore(db *sqlx.DB) *CourseStore { return &CourseStore{db: db} }

var _ store.CourseStore = (*CourseStore)(nil)

func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	out := []models.Course{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, title, description, instructor, start_date, end_date, created_at, updated_at FROM courses ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (s *CourseStore) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	err := s.db.GetContext(ctx, &c, `SELECT id, title, description, instructor, start_date, end_date, created_at, updated_at FROM courses WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &c, nil
}

func (s *CourseStore) Create(ctx context.Context, c models.Course) (*models.Course, error) {
	if c.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses (id, title, description, instructor, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Title, c.Description, c.Instructor, c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &c, nil
}

func (s *CourseStore) Update(ctx context.Context, id string, upd store.CourseUpdate) (*models.Course, error) {
	setClauses := []string{}
	args := []interface{}{}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		setClauses = append(setClauses, fmt.Sprintf("title=$%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		setClauses = append(setClauses, fmt.Sprintf("description=$%d", len(args)))
	}
	if upd.Instructor != nil {
		args = append(args, *upd.Instructor)
		setClauses = append(setClauses, fmt.Sprintf("instructor=$%d", len(args)))
	}
	if upd.StartDate != nil {
		args = append(args, *upd.StartDate)
		setClauses = append(setClauses, fmt.Sprintf("start_date=$%d", len(args)))
	}
	if upd.EndDate != nil {
		args = append(args, *upd.EndDate)
		setClauses = append(setClauses, fmt.Sprintf("end_date=$%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	args = append(args, id)
	query := "UPDATE courses SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *CourseStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("course %s: %w", id, models.ErrNotFound)
	}
	return nil
}

type EventStore struct {
	db *sqlx.DB
}

func NewEventStore(db *sqlx.DB) *EventStore { return &EventStore{db: db} }

var _ store.EventStore = (*EventStore)(nil)

func (s *EventStore) loadAttendees(ctx context.Context, e *models.Event) error {
	e.AttendeeIDs = []string{}
	if err := s.db.SelectContext(ctx, &e.AttendeeIDs, `SELECT external_id FROM event_attendees WHERE event_id=$1 ORDER BY created_at`, e.ID); err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	return nil
}

func (s *EventStore) selectEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	out := []models.Event{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for i := range out {
		if err := s.loadAttendees(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	return s.selectEvents(ctx, `SELECT id, name, date, location, description, created_at, updated_at FROM events ORDER BY date`)
}

func (s *EventStore) ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	return s.selectEvents(ctx, `SELECT id, name, date, location, description, created_at, updated_at FROM events WHERE date >= $1 ORDER BY date`, now)
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.db.GetContext(ctx, &e, `SELECT id, name, date, location, description, created_at, updated_at FROM events WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.loadAttendees(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventStore) Create(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.Name == "" || e.Date.IsZero() {
		return nil, fmt.Errorf("name and date are required: %w", models.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.AttendeeIDs = []string{}
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO events (id, name, date, location, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Date, e.Location, e.Description, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

func (s *EventStore) Update(ctx context.Context, id string, upd store.EventUpdate) (*models.Event, error) {
	setClauses := []string{}
	args := []interface{}{}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		setClauses = append(setClauses, fmt.Sprintf("name=$%d", len(args)))
	}
	if upd.Date != nil {
		args = append(args, *upd.Date)
		setClauses = append(setClauses, fmt.Sprintf("date=$%d", len(args)))
	}
	if upd.Location != nil {
		args = append(args, *upd.Location)
		setClauses = append(setClauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		setClauses = append(setClauses, fmt.Sprintf("description=$%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	args = append(args, id)
	query := "UPDATE events SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *EventStore) AddAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error) {
	if externalID == "" {
		return nil, fmt.Errorf("attendee id is required: %w", models.ErrInvalidArgument)
	}
	_, err := s.db.ExecContext(ctx, `
		WITH ins AS (
			INSERT INTO event_attendees (event_id, external_id)
			SELECT id, $2 FROM events WHERE id = $1
			ON CONFLICT DO NOTHING
			RETURNING event_id
		)
		UPDATE events SET updated_at = NOW()
		WHERE id IN (SELECT event_id FROM ins)`,
		eventID, externalID)
	if err != nil {
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return s.GetByID(ctx, eventID)
}

func (s *EventStore) RemoveAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error) {
	_, err := s.db.ExecContext(ctx, `
		WITH del AS (
			DELETE FROM event_attendees
			WHERE event_id = $1 AND external_id = $2
			RETURNING event_id
		)
		UPDATE events SET updated_at = NOW()
		WHERE id IN (SELECT event_id FROM del)`,
		eventID, externalID)
	if err != nil {
		return nil, fmt.Errorf("remove attendee: %w", err)
	}
	return s.GetByID(ctx, eventID)
}

type ResourceStore struct {
	db *sqlx.DB
}

func NewResourceStore(db *sqlx.DB) *ResourceStore { return &ResourceStore{db: db} }

var _ store.ResourceStore = (*ResourceStore)(nil)

func (s *ResourceStore) List(ctx context.Context, category models.ResourceCategory) ([]models.Resource, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("category %q: %w", category, models.ErrInvalidArgument)
	}
	where := ""
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		where = "WHERE category=$1 "
	}
	out := []models.Resource{}
	query := `SELECT id, title, category, link, description, created_at, updated_at FROM resources ` + where + `ORDER BY created_at`
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}

func (s *ResourceStore) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var res models.Resource
	err := s.db.GetContext(ctx, &res, `SELECT id, title, category, link, description, created_at, updated_at FROM resources WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource: %w", err)
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
	now := time.Now().UTC()
	res.ID = uuid.NewString()
	res.CreatedAt = now
	res.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO resources (id, title, category, link, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.Title, res.Category, res.Link, res.Description, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return &res, nil
}

func (s *ResourceStore) Update(ctx context.Context, id string, upd store.ResourceUpdate) (*models.Resource, error) {
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, fmt.Errorf("category %q: %w", *upd.Category, models.ErrInvalidArgument)
	}
	setClauses := []string{}
	args := []interface{}{}
	if upd.Title != nil {
		args = append(args, *upd.Title)
		setClauses = append(setClauses, fmt.Sprintf("title=$%d", len(args)))
	}
	if upd.Category != nil {
		args = append(args, *upd.Category)
		setClauses = append(setClauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if upd.Link != nil {
		args = append(args, *upd.Link)
		setClauses = append(setClauses, fmt.Sprintf("link=$%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		setClauses = append(setClauses, fmt.Sprintf("description=$%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	args = append(args, id)
	query := "UPDATE resources SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("resource %s: %w", id, models.ErrNotFound)
	}
	return nil
}

type HabitStore struct {
	db *sqlx.DB
}

func NewHabitStore(db *sqlx.DB) *HabitStore { return &HabitStore{db: db} }

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
	out := []models.Habit{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name, frequency, progress, owner_external_id, created_at, updated_at FROM habits WHERE owner_external_id=$1 ORDER BY created_at`, ownerExternalID); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return out, nil
}

func (s *HabitStore) GetByID(ctx context.Context, id string) (*models.Habit, error) {
	var h models.Habit
	err := s.db.GetContext(ctx, &h, `SELECT id, name, frequency, progress, owner_external_id, created_at, updated_at FROM habits WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get habit: %w", err)
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
	now := time.Now().UTC()
	h.ID = uuid.NewString()
	h.Progress = clampProgress(h.Progress)
	h.CreatedAt = now
	h.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO habits (id, name, frequency, progress, owner_external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.Name, h.Frequency, h.Progress, h.OwnerExternalID, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &h, nil
}

func (s *HabitStore) Update(ctx context.Context, id string, upd store.HabitUpdate) (*models.Habit, error) {
	if upd.Frequency != nil && !upd.Frequency.Valid() {
		return nil, fmt.Errorf("frequency %q: %w", *upd.Frequency, models.ErrInvalidArgument)
	}
	setClauses := []string{}
	args := []interface{}{}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		setClauses = append(setClauses, fmt.Sprintf("name=$%d", len(args)))
	}
	if upd.Frequency != nil {
		args = append(args, *upd.Frequency)
		setClauses = append(setClauses, fmt.Sprintf("frequency=$%d", len(args)))
	}
	if upd.Progress != nil {
		args = append(args, clampProgress(*upd.Progress))
		setClauses = append(setClauses, fmt.Sprintf("progress=$%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	args = append(args, id)
	query := "UPDATE habits SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id=$%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *HabitStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("habit %s: %w", id, models.ErrNotFound)
	}
	return nil
}

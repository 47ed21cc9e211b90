// Package store defines the persistence interfaces for the profile
// aggregate and the catalog collections. Two implementations exist:
// an in-memory map store (package memory) and a Postgres store
// (package postgres). The implementation is chosen at process start.
package store

import (
	"context"
	"time"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
)

// ProfileUpdate carries the whitelisted scalar fields a PATCH may set.
// Nested collections are never touched through this path. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Role      *models.Role
}

// PlannerEntryUpdate carries the fields an entry PATCH may set.
type PlannerEntryUpdate struct {
	TimeOfDay *string
	TaskText  *string
	Status    *models.PlannerStatus
}

// ProfileStore owns the single source of truth for one identity's
// wellness data and membership sets. Every operation is keyed by the
// identity provider's external subject id.
//
// Mutations addressed to a missing profile or entry return
// models.ErrNotFound and perform no write. Enum and argument
// violations return models.ErrInvalidArgument. Every successful
// mutation advances the aggregate's UpdatedAt.
type ProfileStore interface {
	Get(ctx context.Context, externalID string) (*models.Profile, error)

	// Create fails with models.ErrConflict when the external id or
	// email is already taken. First writer wins under races.
	Create(ctx context.Context, externalID, firstName, lastName, email string) (*models.Profile, error)

	UpdateScalarFields(ctx context.Context, externalID string, upd ProfileUpdate) (*models.Profile, error)

	AppendCheckIn(ctx context.Context, externalID string, mood models.Mood, notes string) (*models.CheckIn, error)
	ListCheckIns(ctx context.Context, externalID string) ([]models.CheckIn, error)

	AppendPlannerEntry(ctx context.Context, externalID, timeOfDay, taskText string) (*models.PlannerEntry, error)
	ListPlannerEntries(ctx context.Context, externalID string) ([]models.PlannerEntry, error)
	UpdatePlannerEntry(ctx context.Context, externalID, entryID string, upd PlannerEntryUpdate) (*models.PlannerEntry, error)
	DeletePlannerEntry(ctx context.Context, externalID, entryID string) error

	AppendBrainDump(ctx context.Context, externalID, content string) (*models.BrainDumpEntry, error)
	DeleteBrainDump(ctx context.Context, externalID, entryID string) error

	AppendFocusSession(ctx context.Context, externalID string, durationMinutes int) (*models.FocusSession, error)

	// AddToSet adds targetID to the named membership set if absent.
	// Adding a present id is a no-op, not an error. Returns the
	// refreshed aggregate.
	AddToSet(ctx context.Context, externalID string, set models.MembershipSet, targetID string) (*models.Profile, error)
}

type CourseUpdate struct {
	Title       *string
	Description *string
	Instructor  *string
	StartDate   *time.Time
	EndDate     *time.Time
}

type CourseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, c models.Course) (*models.Course, error)
	Update(ctx context.Context, id string, upd CourseUpdate) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

type EventUpdate struct {
	Name        *string
	Date        *time.Time
	Location    *string
	Description *string
}

type EventStore interface {
	List(ctx context.Context) ([]models.Event, error)
	// ListUpcoming returns events with a date at or after now, soonest first.
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, e models.Event) (*models.Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*models.Event, error)
	Delete(ctx context.Context, id string) error

	// AddAttendee and RemoveAttendee are idempotent set operations
	// mirroring ProfileStore.AddToSet.
	AddAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error)
	RemoveAttendee(ctx context.Context, eventID, externalID string) (*models.Event, error)
}

type ResourceUpdate struct {
	Title       *string
	Category    *models.ResourceCategory
	Link        *string
	Description *string
}

type ResourceStore interface {
	// List returns all resources, or only those in category when it
	// is non-empty.
	List(ctx context.Context, category models.ResourceCategory) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	Create(ctx context.Context, res models.Resource) (*models.Resource, error)
	Update(ctx context.Context, id string, upd ResourceUpdate) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
}

type HabitUpdate struct {
	Name      *string
	Frequency *models.HabitFrequency
	// Progress is clamped to 0-100 before the write.
	Progress *int
}

type HabitStore interface {
	ListByOwner(ctx context.Context, ownerExternalID string) ([]models.Habit, error)
	GetByID(ctx context.Context, id string) (*models.Habit, error)
	Create(ctx context.Context, h models.Habit) (*models.Habit, error)
	Update(ctx context.Context, id string, upd HabitUpdate) (*models.Habit, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles the per-entity stores one implementation provides.
type Stores struct {
	Profiles  ProfileStore
	Courses   CourseStore
	Events    EventStore
	Resources ResourceStore
	Habits    HabitStore
}

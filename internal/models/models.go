package models

import "time"

// Role controls access to catalog-management screens. The check is
// advisory (performed by the client); the server only stores it.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// Mood is the fixed set of feelings a check-in may record.
type Mood string

const (
	MoodHappy       Mood = "happy"
	MoodSad         Mood = "sad"
	MoodAnxious     Mood = "anxious"
	MoodCalm        Mood = "calm"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodFocused     Mood = "focused"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodAnxious, MoodCalm, MoodOverwhelmed, MoodFocused:
		return true
	}
	return false
}

type PlannerStatus string

const (
	PlannerStatusPending    PlannerStatus = "pending"
	PlannerStatusInProgress PlannerStatus = "in-progress"
	PlannerStatusCompleted  PlannerStatus = "completed"
)

func (s PlannerStatus) Valid() bool {
	switch s {
	case PlannerStatusPending, PlannerStatusInProgress, PlannerStatusCompleted:
		return true
	}
	return false
}

type ResourceCategory string

const (
	ResourceCategoryArticle ResourceCategory = "article"
	ResourceCategoryVideo   ResourceCategory = "video"
	ResourceCategoryTool    ResourceCategory = "tool"
	ResourceCategoryGuide   ResourceCategory = "guide"
	ResourceCategoryOther   ResourceCategory = "other"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case ResourceCategoryArticle, ResourceCategoryVideo, ResourceCategoryTool, ResourceCategoryGuide, ResourceCategoryOther:
		return true
	}
	return false
}

type HabitFrequency string

const (
	HabitFrequencyDaily   HabitFrequency = "daily"
	HabitFrequencyWeekly  HabitFrequency = "weekly"
	HabitFrequencyMonthly HabitFrequency = "monthly"
)

func (f HabitFrequency) Valid() bool {
	switch f {
	case HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyMonthly:
		return true
	}
	return false
}

// CheckIn is one mood entry on a profile. Append-only; the server
// assigns ID and Timestamp.
type CheckIn struct {
	ID        string    `db:"id" json:"id"`
	Mood      Mood      `db:"mood" json:"mood"`
	Notes     string    `db:"notes" json:"notes"` // Encrypted in DB
	Timestamp time.Time `db:"created_at" json:"timestamp"`
}

// PlannerEntry is one task on a profile's daily planner.
type PlannerEntry struct {
	ID        string        `db:"id" json:"id"`
	TimeOfDay string        `db:"time_of_day" json:"time_of_day"`
	TaskText  string        `db:"task_text" json:"task_text"`
	Status    PlannerStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// BrainDumpEntry is a free-text note; create and delete only, no update.
type BrainDumpEntry struct {
	ID        string    `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"` // Encrypted in DB
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FocusSession records one completed work interval from the focus
// timer. Append-only.
type FocusSession struct {
	ID              string    `db:"id" json:"id"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CompletedAt     time.Time `db:"completed_at" json:"completed_at"`
}

// Profile is the aggregate holding one identity's wellness data and
// membership sets. It is looked up exclusively by ExternalID, the
// subject key issued by the identity provider.
type Profile struct {
	ID         int64  `db:"id" json:"-"`
	ExternalID string `db:"external_id" json:"external_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Email      string `db:"email" json:"email"`
	Role       Role   `db:"role" json:"role"`

	CheckIns         []CheckIn        `json:"check_ins"`
	PlannerEntries   []PlannerEntry   `json:"planner_entries"`
	BrainDumpEntries []BrainDumpEntry `json:"brain_dump_entries"`
	FocusSessions    []FocusSession   `json:"focus_sessions"`

	EnrolledCourseIDs   []string `json:"enrolled_course_ids"`
	FavoriteResourceIDs []string `json:"favorite_resource_ids"`
	RegisteredEventIDs  []string `json:"registered_event_ids"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy. Holders of a shared aggregate hand out
// clones so callers cannot mutate it from under each other.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.CheckIns = append([]CheckIn(nil), p.CheckIns...)
	out.PlannerEntries = append([]PlannerEntry(nil), p.PlannerEntries...)
	out.BrainDumpEntries = append([]BrainDumpEntry(nil), p.BrainDumpEntries...)
	out.FocusSessions = append([]FocusSession(nil), p.FocusSessions...)
	out.EnrolledCourseIDs = append([]string(nil), p.EnrolledCourseIDs...)
	out.FavoriteResourceIDs = append([]string(nil), p.FavoriteResourceIDs...)
	out.RegisteredEventIDs = append([]string(nil), p.RegisteredEventIDs...)
	return &out
}

// MembershipSet names one of the profile's foreign-key sets.
type MembershipSet string

const (
	SetCourses   MembershipSet = "courses"
	SetResources MembershipSet = "resources"
	SetEvents    MembershipSet = "events"
)

func (s MembershipSet) Valid() bool {
	return s == SetCourses || s == SetResources || s == SetEvents
}

type Course struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Instructor  string    `db:"instructor" json:"instructor"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Event struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Date        time.Time `db:"date" json:"date"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	AttendeeIDs []string  `json:"attendee_ids"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Resource struct {
	ID          string           `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	Category    ResourceCategory `db:"category" json:"category"`
	Link        string           `db:"link" json:"link"`
	Description string           `db:"description" json:"description"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// Habit belongs to a single profile, unlike the shared catalog
// entities. Progress is a 0-100 percentage, clamped on update.
type Habit struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Frequency       HabitFrequency `db:"frequency" json:"frequency"`
	Progress        int            `db:"progress" json:"progress"`
	OwnerExternalID string         `db:"owner_external_id" json:"owner_external_id"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

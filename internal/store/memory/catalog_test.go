package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

func TestCourseCRUD(t *testing.T) {
	s := NewCourseStore()
	ctx := context.Background()

	created, err := s.Create(ctx, models.Course{Title: "Executive Function 101", Instructor: "Dr. Rivera"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Executive Function 101", got.Title)

	title := "Executive Function, Revisited"
	updated, err := s.Update(ctx, created.ID, store.CourseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Dr. Rivera", updated.Instructor)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), models.ErrNotFound)

	t.Run("untitled course rejected", func(t *testing.T) {
		_, err := s.Create(ctx, models.Course{})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestEventUpcoming(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()
	now := time.Now().UTC()

	past, err := s.Create(ctx, models.Event{Name: "Last month's meetup", Date: now.AddDate(0, -1, 0)})
	require.NoError(t, err)
	later, err := s.Create(ctx, models.Event{Name: "Next month's meetup", Date: now.AddDate(0, 1, 0)})
	require.NoError(t, err)
	soon, err := s.Create(ctx, models.Event{Name: "Next week's workshop", Date: now.AddDate(0, 0, 7)})
	require.NoError(t, err)

	upcoming, err := s.ListUpcoming(ctx, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	// Soonest first, past excluded.
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, past.ID, all[0].ID)
}

func TestEventAttendees(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	e, err := s.Create(ctx, models.Event{Name: "Support circle", Date: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	withOne, err := s.AddAttendee(ctx, e.ID, "auth0|123")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth0|123"}, withOne.AttendeeIDs)

	again, err := s.AddAttendee(ctx, e.ID, "auth0|123")
	require.NoError(t, err)
	assert.Len(t, again.AttendeeIDs, 1)

	removed, err := s.RemoveAttendee(ctx, e.ID, "auth0|123")
	require.NoError(t, err)
	assert.Empty(t, removed.AttendeeIDs)

	// Removing an absent attendee is a quiet no-op.
	_, err = s.RemoveAttendee(ctx, e.ID, "auth0|123")
	assert.NoError(t, err)

	_, err = s.AddAttendee(ctx, "no-such-event", "auth0|123")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResourceCategoryFilter(t *testing.T) {
	s := NewResourceStore()
	ctx := context.Background()

	_, err := s.Create(ctx, models.Resource{Title: "Body doubling explained", Category: models.ResourceCategoryArticle})
	require.NoError(t, err)
	video, err := s.Create(ctx, models.Resource{Title: "Timer walkthrough", Category: models.ResourceCategoryVideo})
	require.NoError(t, err)

	videos, err := s.List(ctx, models.ResourceCategoryVideo)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, video.ID, videos[0].ID)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.List(ctx, models.ResourceCategory("podcast"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	t.Run("invalid category on create", func(t *testing.T) {
		_, err := s.Create(ctx, models.Resource{Title: "x", Category: "podcast"})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestHabitProgressClamp(t *testing.T) {
	s := NewHabitStore()
	ctx := context.Background()

	h, err := s.Create(ctx, models.Habit{
		Name:            "Morning walk",
		Frequency:       models.HabitFrequencyDaily,
		Progress:        150,
		OwnerExternalID: "auth0|123",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, h.Progress)

	under := -10
	updated, err := s.Update(ctx, h.ID, store.HabitUpdate{Progress: &under})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)

	half := 50
	updated, err = s.Update(ctx, h.ID, store.HabitUpdate{Progress: &half})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Progress)
}

func TestHabitListByOwner(t *testing.T) {
	s := NewHabitStore()
	ctx := context.Background()

	_, err := s.Create(ctx, models.Habit{Name: "Journal", Frequency: models.HabitFrequencyDaily, OwnerExternalID: "auth0|a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.Habit{Name: "Laundry", Frequency: models.HabitFrequencyWeekly, OwnerExternalID: "auth0|b"})
	require.NoError(t, err)

	mine, err := s.ListByOwner(ctx, "auth0|a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Journal", mine[0].Name)

	none, err := s.ListByOwner(ctx, "auth0|nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/metrics"
	mw "github.com/Shoaibsarfaraz/ADHDSupport/internal/middleware"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store/memory"
)

var (
	testJWTSecret = []byte("handler-test-secret")
	testEncKey    = []byte("0123456789abcdef0123456789abcdef")
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	encSvc, err := services.NewEncryptionService(testEncKey)
	require.NoError(t, err)

	rl := mw.NewRateLimiter(10000, zap.NewNop())
	t.Cleanup(rl.Stop)

	return NewRouter(RouterConfig{
		Logger:      zap.NewNop(),
		Stores:      memory.NewStores(),
		Encryption:  encSvc,
		Sanitizer:   services.NewSanitizer(),
		Auth:        mw.NewAuthMiddleware(testJWTSecret),
		RateLimiter: rl,
		Metrics:     metrics.New(),
	})
}

func signToken(t *testing.T, externalID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": externalID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testJWTSecret)
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func createProfile(t *testing.T, h http.Handler, token, externalID string) models.Profile {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/profiles", token, map[string]string{
		"external_id": externalID,
		"first_name":  "Aisha",
		"last_name":   "Khan",
		"email":       externalID + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p models.Profile
	decodeInto(t, rec, &p)
	return p
}

func TestAuthRequired(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/profiles/auth0%7C123", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileLifecycle(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")

	rec := doJSON(t, h, http.MethodGet, "/api/profiles/auth0%7C123", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p := createProfile(t, h, token, "auth0|123")
	assert.Equal(t, "auth0|123", p.ExternalID)
	assert.Equal(t, models.RoleStandard, p.Role)
	assert.NotNil(t, p.CheckIns)

	t.Run("duplicate create conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles", token, map[string]string{
			"external_id": "auth0|123",
			"email":       "auth0|123@example.com",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing external id rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles", token, map[string]string{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch scalar fields", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, "/api/profiles/auth0%7C123", token, map[string]string{"first_name": "Ash"})
		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Profile
		decodeInto(t, rec, &got)
		assert.Equal(t, "Ash", got.FirstName)
		assert.Equal(t, "Khan", got.LastName)
	})
}

func TestCheckIns(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/checkins", token, map[string]string{
		"mood":  "calm",
		"notes": "<script>alert(1)</script>slept well",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ci models.CheckIn
	decodeInto(t, rec, &ci)
	assert.Equal(t, models.MoodCalm, ci.Mood)
	// Markup is stripped and the response carries plaintext.
	assert.Equal(t, "slept well", ci.Notes)

	t.Run("list returns decrypted notes", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/profiles/auth0%7C123/checkins", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []models.CheckIn
		decodeInto(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, "slept well", list[0].Notes)
	})

	t.Run("invalid mood rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/checkins", token, map[string]string{"mood": "ecstatic"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing profile", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C999/checkins", token, map[string]string{"mood": "happy"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlannerRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/planner", token, map[string]string{
		"time_of_day": "morning",
		"task_text":   "take meds",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry models.PlannerEntry
	decodeInto(t, rec, &entry)
	assert.Equal(t, models.PlannerStatusPending, entry.Status)

	rec = doJSON(t, h, http.MethodPatch, "/api/profiles/auth0%7C123/planner/"+entry.ID, token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.PlannerEntry
	decodeInto(t, rec, &updated)
	assert.Equal(t, models.PlannerStatusCompleted, updated.Status)

	rec = doJSON(t, h, http.MethodDelete, "/api/profiles/auth0%7C123/planner/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/profiles/auth0%7C123/planner/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBrainDumpRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/braindump", token, map[string]string{"content": "random thought"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry models.BrainDumpEntry
	decodeInto(t, rec, &entry)
	assert.Equal(t, "random thought", entry.Content)

	t.Run("empty content rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/braindump", token, map[string]string{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = doJSON(t, h, http.MethodDelete, "/api/profiles/auth0%7C123/braindump/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFocusSessionRoute(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/focus-sessions", token, map[string]int{"duration_minutes": 25})
	require.Equal(t, http.StatusCreated, rec.Code)
	var fs models.FocusSession
	decodeInto(t, rec, &fs)
	assert.Equal(t, 25, fs.DurationMinutes)

	rec = doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/focus-sessions", token, map[string]int{"duration_minutes": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMembershipRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/enroll", token, map[string]string{"course_id": "course-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Profile
	decodeInto(t, rec, &p)
	assert.Equal(t, []string{"course-1"}, p.EnrolledCourseIDs)

	t.Run("enrolling twice keeps one membership", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/enroll", token, map[string]string{"course_id": "course-1"})
		require.Equal(t, http.StatusOK, rec.Code)
		var p models.Profile
		decodeInto(t, rec, &p)
		assert.Equal(t, []string{"course-1"}, p.EnrolledCourseIDs)
	})

	t.Run("missing body field rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/favorite", token, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/register", token, map[string]string{"event_id": "event-9"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &p)
	assert.Equal(t, []string{"event-9"}, p.RegisteredEventIDs)
	assert.Equal(t, []string{"course-1"}, p.EnrolledCourseIDs)
}

func TestCourseRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|admin")

	rec := doJSON(t, h, http.MethodPost, "/api/courses", token, map[string]string{
		"title":      "Executive Function 101",
		"instructor": "Dr. Rivera",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var c models.Course
	decodeInto(t, rec, &c)

	rec = doJSON(t, h, http.MethodGet, "/api/courses/"+c.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/courses/"+c.ID, token, map[string]string{"title": "Executive Function, Revisited"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &c)
	assert.Equal(t, "Executive Function, Revisited", c.Title)

	rec = doJSON(t, h, http.MethodDelete, "/api/courses/"+c.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/courses/"+c.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec := doJSON(t, h, http.MethodPost, "/api/events", token, map[string]string{
		"name": "Support circle",
		"date": future,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e models.Event
	decodeInto(t, rec, &e)

	t.Run("upcoming includes it", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/events/upcoming", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var events []models.Event
		decodeInto(t, rec, &events)
		require.Len(t, events, 1)
		assert.Equal(t, e.ID, events[0].ID)
	})

	t.Run("attendee set round trip", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/events/"+e.ID+"/attendees/auth0%7C123", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Event
		decodeInto(t, rec, &got)
		assert.Equal(t, []string{"auth0|123"}, got.AttendeeIDs)

		rec = doJSON(t, h, http.MethodDelete, "/api/events/"+e.ID+"/attendees/auth0%7C123", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeInto(t, rec, &got)
		assert.Empty(t, got.AttendeeIDs)
	})

	t.Run("missing date rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/events", token, map[string]string{"name": "No date"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResourceRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")

	for i, cat := range []models.ResourceCategory{models.ResourceCategoryArticle, models.ResourceCategoryVideo} {
		rec := doJSON(t, h, http.MethodPost, "/api/resources", token, map[string]string{
			"title":    fmt.Sprintf("Resource %d", i),
			"category": string(cat),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodGet, "/api/resources?category=video", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resources []models.Resource
	decodeInto(t, rec, &resources)
	require.Len(t, resources, 1)
	assert.Equal(t, models.ResourceCategoryVideo, resources[0].Category)

	rec = doJSON(t, h, http.MethodGet, "/api/resources?category=podcast", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHabitRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signToken(t, "auth0|123")
	createProfile(t, h, token, "auth0|123")

	rec := doJSON(t, h, http.MethodPost, "/api/profiles/auth0%7C123/habits", token, map[string]string{
		"name":      "Morning walk",
		"frequency": "daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var habit models.Habit
	decodeInto(t, rec, &habit)
	assert.Equal(t, "auth0|123", habit.OwnerExternalID)

	rec = doJSON(t, h, http.MethodPatch, "/api/habits/"+habit.ID, token, map[string]int{"progress": 250})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &habit)
	assert.Equal(t, 100, habit.Progress)

	rec = doJSON(t, h, http.MethodGet, "/api/profiles/auth0%7C123/habits", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var habits []models.Habit
	decodeInto(t, rec, &habits)
	assert.Len(t, habits, 1)
}

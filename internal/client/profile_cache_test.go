package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/handlers"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/metrics"
	mw "github.com/Shoaibsarfaraz/ADHDSupport/internal/middleware"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store/memory"
)

var (
	testJWTSecret = []byte("client-test-secret")
	testEncKey    = []byte("fedcba9876543210fedcba9876543210")
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	encSvc, err := services.NewEncryptionService(testEncKey)
	require.NoError(t, err)

	rl := mw.NewRateLimiter(10000, zap.NewNop())
	t.Cleanup(rl.Stop)

	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{
		Logger:      zap.NewNop(),
		Stores:      memory.NewStores(),
		Encryption:  encSvc,
		Sanitizer:   services.NewSanitizer(),
		Auth:        mw.NewAuthMiddleware(testJWTSecret),
		RateLimiter: rl,
		Metrics:     metrics.New(),
	}))
	t.Cleanup(srv.Close)
	return srv
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

func newTestCache(t *testing.T) *ProfileCache {
	t.Helper()
	srv := newTestServer(t)
	api := New(srv.URL, signToken(t, "auth0|123"))
	return NewProfileCache(api, zap.NewNop())
}

func TestSignInCreatesOnFirstVisit(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	assert.False(t, cache.Ready())
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))
	require.True(t, cache.Ready())

	p := cache.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "auth0|123", p.ExternalID)
	assert.Equal(t, "Aisha", p.FirstName)
	assert.False(t, cache.IsAdmin())
}

func TestSignInFindsExistingProfile(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))
	cache.SignOut()
	assert.False(t, cache.Ready())
	assert.Nil(t, cache.Profile())

	// Second sign-in must find the profile, not create a duplicate.
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Ignored", "Ignored", "other@example.com"))
	p := cache.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "Aisha", p.FirstName)
	assert.Equal(t, "aisha@example.com", p.Email)
}

func TestSignInRecoversFromCreateRace(t *testing.T) {
	// Another session creates the profile between the missed GET and
	// our POST. The Conflict must resolve into a second, successful GET.
	existing := models.Profile{
		ExternalID: "auth0|123",
		FirstName:  "Aisha",
		LastName:   "Khan",
		Email:      "aisha@example.com",
	}
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if gets.Add(1) == 1 {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "profile not found"})
				return
			}
			_ = json.NewEncoder(w).Encode(existing)
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "profile already exists"})
		}
	}))
	t.Cleanup(srv.Close)

	cache := NewProfileCache(New(srv.URL, signToken(t, "auth0|123")), zap.NewNop())
	require.NoError(t, cache.SignIn(context.Background(), "auth0|123", "Aisha", "Khan", "aisha@example.com"))

	require.True(t, cache.Ready())
	p := cache.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "Aisha", p.FirstName)
	assert.EqualValues(t, 2, gets.Load())
}

func TestProfileReturnsCopy(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))
	require.NoError(t, cache.AddCheckIn(ctx, models.MoodFocused, "deep work"))

	p := cache.Profile()
	p.FirstName = "Mallory"
	p.CheckIns[0].Notes = "scribbled over"

	// The cache hands out copies; editing one must not leak back in.
	fresh := cache.Profile()
	assert.Equal(t, "Aisha", fresh.FirstName)
	assert.Equal(t, "deep work", fresh.CheckIns[0].Notes)
}

func TestMutationsRefreshCache(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))

	require.NoError(t, cache.AddCheckIn(ctx, models.MoodFocused, "deep work"))
	p := cache.Profile()
	require.Len(t, p.CheckIns, 1)
	assert.Equal(t, "deep work", p.CheckIns[0].Notes)

	require.NoError(t, cache.AddPlannerEntry(ctx, "morning", "take meds"))
	p = cache.Profile()
	require.Len(t, p.PlannerEntries, 1)
	entryID := p.PlannerEntries[0].ID

	done := models.PlannerStatusCompleted
	require.NoError(t, cache.UpdatePlannerEntry(ctx, entryID, UpdatePlannerEntryRequest{Status: &done}))
	assert.Equal(t, models.PlannerStatusCompleted, cache.Profile().PlannerEntries[0].Status)

	require.NoError(t, cache.DeletePlannerEntry(ctx, entryID))
	assert.Empty(t, cache.Profile().PlannerEntries)

	require.NoError(t, cache.AddFocusSession(ctx, 25))
	require.Len(t, cache.Profile().FocusSessions, 1)
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))

	before := cache.Profile()
	err := cache.AddCheckIn(ctx, models.Mood("ecstatic"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Equal(t, before, cache.Profile())

	t.Run("signed out mutations fail fast", func(t *testing.T) {
		cache.SignOut()
		assert.Error(t, cache.AddBrainDump(ctx, "thought"))
	})
}

func TestMembershipMutationsSwapAggregate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.SignIn(ctx, "auth0|123", "Aisha", "Khan", "aisha@example.com"))

	require.NoError(t, cache.Enroll(ctx, "course-1"))
	assert.Equal(t, []string{"course-1"}, cache.Profile().EnrolledCourseIDs)

	require.NoError(t, cache.Enroll(ctx, "course-1"))
	assert.Equal(t, []string{"course-1"}, cache.Profile().EnrolledCourseIDs)

	require.NoError(t, cache.FavoriteResource(ctx, "res-7"))
	require.NoError(t, cache.RegisterForEvent(ctx, "event-9"))
	p := cache.Profile()
	assert.Equal(t, []string{"res-7"}, p.FavoriteResourceIDs)
	assert.Equal(t, []string{"event-9"}, p.RegisteredEventIDs)
}

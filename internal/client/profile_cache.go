package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
)

// ProfileCache holds the signed-in subject's aggregate between API
// calls. The server stays the source of truth: every successful
// mutation is followed by a full re-fetch, and the cached copy is
// swapped wholesale. A failed mutation leaves the cache exactly as it
// was.
type ProfileCache struct {
	api    *Client
	logger *zap.Logger

	mu         sync.RWMutex
	externalID string
	profile    *models.Profile
}

func NewProfileCache(api *Client, logger *zap.Logger) *ProfileCache {
	return &ProfileCache{api: api, logger: logger}
}

// SignIn loads the aggregate for externalID, creating the profile on
// first sign-in. A Conflict from the create means another session won
// the race; the existing profile is fetched instead.
func (pc *ProfileCache) SignIn(ctx context.Context, externalID, firstName, lastName, email string) error {
	p, err := pc.api.GetProfile(ctx, externalID)
	if errors.Is(err, models.ErrNotFound) {
		p, err = pc.api.CreateProfile(ctx, CreateProfileRequest{
			ExternalID: externalID,
			FirstName:  firstName,
			LastName:   lastName,
			Email:      email,
		})
		if errors.Is(err, models.ErrConflict) {
			p, err = pc.api.GetProfile(ctx, externalID)
		}
	}
	if err != nil {
		pc.logger.Error("sign-in failed", zap.String("external_id", externalID), zap.Error(err))
		return err
	}

	pc.mu.Lock()
	pc.externalID = externalID
	pc.profile = p
	pc.mu.Unlock()
	return nil
}

// SignOut drops the cached aggregate immediately. No server call.
func (pc *ProfileCache) SignOut() {
	pc.mu.Lock()
	pc.externalID = ""
	pc.profile = nil
	pc.mu.Unlock()
}

// Ready reports whether a profile is loaded. Screens gate on this
// before rendering profile data.
func (pc *ProfileCache) Ready() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.profile != nil
}

func (pc *ProfileCache) IsAdmin() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.profile != nil && pc.profile.Role == models.RoleAdmin
}

// Profile returns a copy of the cached aggregate, or nil when signed
// out. A copy, so callers cannot edit the cache in place; changes go
// through the mutation helpers.
func (pc *ProfileCache) Profile() *models.Profile {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.profile.Clone()
}

var errSignedOut = errors.New("not signed in")

func (pc *ProfileCache) currentID() (string, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	if pc.externalID == "" {
		return "", errSignedOut
	}
	return pc.externalID, nil
}

// refresh re-fetches the aggregate after a successful mutation. The
// mutation itself already succeeded, so a failed refresh only means
// the cache is stale until the next one; it is logged, not returned.
func (pc *ProfileCache) refresh(ctx context.Context, externalID string) {
	p, err := pc.api.GetProfile(ctx, externalID)
	if err != nil {
		pc.logger.Warn("profile refresh failed", zap.String("external_id", externalID), zap.Error(err))
		return
	}
	pc.mu.Lock()
	if pc.externalID == externalID {
		pc.profile = p
	}
	pc.mu.Unlock()
}

// swap installs an aggregate some mutations return directly, saving
// the extra round trip.
func (pc *ProfileCache) swap(externalID string, p *models.Profile) {
	pc.mu.Lock()
	if pc.externalID == externalID {
		pc.profile = p
	}
	pc.mu.Unlock()
}

func (pc *ProfileCache) AddCheckIn(ctx context.Context, mood models.Mood, notes string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if _, err := pc.api.AddCheckIn(ctx, id, CheckInRequest{Mood: mood, Notes: notes}); err != nil {
		pc.logger.Error("check-in failed", zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) AddPlannerEntry(ctx context.Context, timeOfDay, taskText string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if _, err := pc.api.AddPlannerEntry(ctx, id, PlannerEntryRequest{TimeOfDay: timeOfDay, TaskText: taskText}); err != nil {
		pc.logger.Error("planner add failed", zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) UpdatePlannerEntry(ctx context.Context, entryID string, req UpdatePlannerEntryRequest) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if _, err := pc.api.UpdatePlannerEntry(ctx, id, entryID, req); err != nil {
		pc.logger.Error("planner update failed", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) DeletePlannerEntry(ctx context.Context, entryID string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if err := pc.api.DeletePlannerEntry(ctx, id, entryID); err != nil {
		pc.logger.Error("planner delete failed", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) AddBrainDump(ctx context.Context, content string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if _, err := pc.api.AddBrainDump(ctx, id, content); err != nil {
		pc.logger.Error("brain dump add failed", zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) DeleteBrainDump(ctx context.Context, entryID string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if err := pc.api.DeleteBrainDump(ctx, id, entryID); err != nil {
		pc.logger.Error("brain dump delete failed", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) AddFocusSession(ctx context.Context, durationMinutes int) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	if _, err := pc.api.AddFocusSession(ctx, id, durationMinutes); err != nil {
		pc.logger.Error("focus session record failed", zap.Error(err))
		return err
	}
	pc.refresh(ctx, id)
	return nil
}

func (pc *ProfileCache) Enroll(ctx context.Context, courseID string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	p, err := pc.api.Enroll(ctx, id, courseID)
	if err != nil {
		pc.logger.Error("enroll failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	pc.swap(id, p)
	return nil
}

func (pc *ProfileCache) FavoriteResource(ctx context.Context, resourceID string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	p, err := pc.api.FavoriteResource(ctx, id, resourceID)
	if err != nil {
		pc.logger.Error("favorite failed", zap.String("resource_id", resourceID), zap.Error(err))
		return err
	}
	pc.swap(id, p)
	return nil
}

func (pc *ProfileCache) RegisterForEvent(ctx context.Context, eventID string) error {
	id, err := pc.currentID()
	if err != nil {
		return err
	}
	p, err := pc.api.RegisterForEvent(ctx, id, eventID)
	if err != nil {
		pc.logger.Error("event registration failed", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	pc.swap(id, p)
	return nil
}

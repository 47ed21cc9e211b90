// Package client is the typed Go client for the API, plus the
// stateful pieces a frontend needs: a cached profile aggregate tied
// to the sign-in session and a focus timer that persists completed
// work intervals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
)

// Client talks to one deployment of the API on behalf of one signed-in
// subject. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do issues one request and decodes the response into out (when out is
// non-nil). Error statuses map onto the models sentinel errors so
// callers can branch with errors.Is the same way they would against a
// store.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w", msg, models.ErrInvalidArgument)
		case http.StatusConflict:
			return fmt.Errorf("%s: %w", msg, models.ErrConflict)
		default:
			return fmt.Errorf("api: %s (status %d)", msg, resp.StatusCode)
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type CreateProfileRequest struct {
	ExternalID string `json:"external_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

func (c *Client) GetProfile(ctx context.Context, externalID string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(externalID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProfile(ctx context.Context, req CreateProfileRequest) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodPost, "/api/profiles", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type UpdateProfileRequest struct {
	FirstName *string      `json:"first_name,omitempty"`
	LastName  *string      `json:"last_name,omitempty"`
	Role      *models.Role `json:"role,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, externalID string, req UpdateProfileRequest) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(externalID), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type CheckInRequest struct {
	Mood  models.Mood `json:"mood"`
	Notes string      `json:"notes"`
}

func (c *Client) AddCheckIn(ctx context.Context, externalID string, req CheckInRequest) (*models.CheckIn, error) {
	var ci models.CheckIn
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/checkins", req, &ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

type PlannerEntryRequest struct {
	TimeOfDay string `json:"time_of_day"`
	TaskText  string `json:"task_text"`
}

func (c *Client) AddPlannerEntry(ctx context.Context, externalID string, req PlannerEntryRequest) (*models.PlannerEntry, error) {
	var e models.PlannerEntry
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/planner", req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

type UpdatePlannerEntryRequest struct {
	TimeOfDay *string               `json:"time_of_day,omitempty"`
	TaskText  *string               `json:"task_text,omitempty"`
	Status    *models.PlannerStatus `json:"status,omitempty"`
}

func (c *Client) UpdatePlannerEntry(ctx context.Context, externalID, entryID string, req UpdatePlannerEntryRequest) (*models.PlannerEntry, error) {
	var e models.PlannerEntry
	if err := c.do(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(externalID)+"/planner/"+url.PathEscape(entryID), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeletePlannerEntry(ctx context.Context, externalID, entryID string) error {
	return c.do(ctx, http.MethodDelete, "/api/profiles/"+url.PathEscape(externalID)+"/planner/"+url.PathEscape(entryID), nil, nil)
}

func (c *Client) AddBrainDump(ctx context.Context, externalID, content string) (*models.BrainDumpEntry, error) {
	var e models.BrainDumpEntry
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/braindump", body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteBrainDump(ctx context.Context, externalID, entryID string) error {
	return c.do(ctx, http.MethodDelete, "/api/profiles/"+url.PathEscape(externalID)+"/braindump/"+url.PathEscape(entryID), nil, nil)
}

func (c *Client) AddFocusSession(ctx context.Context, externalID string, durationMinutes int) (*models.FocusSession, error) {
	var fs models.FocusSession
	body := map[string]int{"duration_minutes": durationMinutes}
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/focus-sessions", body, &fs); err != nil {
		return nil, err
	}
	return &fs, nil
}

func (c *Client) Enroll(ctx context.Context, externalID, courseID string) (*models.Profile, error) {
	var p models.Profile
	body := map[string]string{"course_id": courseID}
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/enroll", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) FavoriteResource(ctx context.Context, externalID, resourceID string) (*models.Profile, error) {
	var p models.Profile
	body := map[string]string{"resource_id": resourceID}
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/favorite", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) RegisterForEvent(ctx context.Context, externalID, eventID string) (*models.Profile, error) {
	var p models.Profile
	body := map[string]string{"event_id": eventID}
	if err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(externalID)+"/register", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) ListUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/api/events/upcoming", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) ListResources(ctx context.Context, category models.ResourceCategory) ([]models.Resource, error) {
	path := "/api/resources"
	if category != "" {
		path += "?category=" + url.QueryEscape(string(category))
	}
	var resources []models.Resource
	if err := c.do(ctx, http.MethodGet, path, nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *Client) ListHabits(ctx context.Context, externalID string) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(externalID)+"/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

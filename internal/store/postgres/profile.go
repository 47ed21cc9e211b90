// Package postgres implements the store interfaces on Postgres via
// sqlx. Every mutation is a single SQL statement (data-modifying CTEs
// where a child write and the aggregate's updated_at bump must land
// together), never a read-modify-write pair.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/models"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type ProfileStore struct {
	db *sqlx.DB
}

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

var _ store.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Get(ctx context.Context, externalID string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `SELECT id, external_id, first_name, last_name, email, role, created_at, updated_at FROM profiles WHERE external_id=$1`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := s.loadCollections(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileStore) loadCollections(ctx context.Context, p *models.Profile) error {
	p.CheckIns = []models.CheckIn{}
	if err := s.db.SelectContext(ctx, &p.CheckIns, `SELECT id, mood, notes, created_at FROM check_ins WHERE profile_id=$1 ORDER BY created_at`, p.ID); err != nil {
		return fmt.Errorf("load check-ins: %w", err)
	}
	p.PlannerEntries = []models.PlannerEntry{}
	if err := s.db.SelectContext(ctx, &p.PlannerEntries, `SELECT id, time_of_day, task_text, status, created_at FROM planner_entries WHERE profile_id=$1 ORDER BY created_at`, p.ID); err != nil {
		return fmt.Errorf("load planner entries: %w", err)
	}
	p.BrainDumpEntries = []models.BrainDumpEntry{}
	if err := s.db.SelectContext(ctx, &p.BrainDumpEntries, `SELECT id, content, created_at FROM brain_dump_entries WHERE profile_id=$1 ORDER BY created_at`, p.ID); err != nil {
		return fmt.Errorf("load brain dump entries: %w", err)
	}
	p.FocusSessions = []models.FocusSession{}
	if err := s.db.SelectContext(ctx, &p.FocusSessions, `SELECT id, duration_minutes, completed_at FROM focus_sessions WHERE profile_id=$1 ORDER BY completed_at`, p.ID); err != nil {
		return fmt.Errorf("load focus sessions: %w", err)
	}

	p.EnrolledCourseIDs = []string{}
	p.FavoriteResourceIDs = []string{}
	p.RegisteredEventIDs = []string{}
	rows, err := s.db.QueryxContext(ctx, `SELECT set_name, target_id FROM profile_memberships WHERE profile_id=$1 ORDER BY created_at`, p.ID)
	if err != nil {
		return fmt.Errorf("load memberships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var setName, targetID string
		if err := rows.Scan(&setName, &targetID); err != nil {
			return fmt.Errorf("scan membership: %w", err)
		}
		switch models.MembershipSet(setName) {
		case models.SetCourses:
			p.EnrolledCourseIDs = append(p.EnrolledCourseIDs, targetID)
		case models.SetResources:
			p.FavoriteResourceIDs = append(p.FavoriteResourceIDs, targetID)
		case models.SetEvents:
			p.RegisteredEventIDs = append(p.RegisteredEventIDs, targetID)
		}
	}
	return rows.Err()
}

func (s *ProfileStore) Create(ctx context.Context, externalID, firstName, lastName, email string) (*models.Profile, error) {
	if externalID == "" || email == "" {
		return nil, fmt.Errorf("external id and email are required: %w", models.ErrInvalidArgument)
	}
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `INSERT INTO profiles (external_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, external_id, first_name, last_name, email, role, created_at, updated_at`,
		externalID, firstName, lastName, email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrConflict)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	p.CheckIns = []models.CheckIn{}
	p.PlannerEntries = []models.PlannerEntry{}
	p.BrainDumpEntries = []models.BrainDumpEntry{}
	p.FocusSessions = []models.FocusSession{}
	p.EnrolledCourseIDs = []string{}
	p.FavoriteResourceIDs = []string{}
	p.RegisteredEventIDs = []string{}
	return &p, nil
}

func (s *ProfileStore) UpdateScalarFields(ctx context.Context, externalID string, upd store.ProfileUpdate) (*models.Profile, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", *upd.Role, models.ErrInvalidArgument)
	}

	setClauses := []string{}
	args := []interface{}{}
	if upd.FirstName != nil {
		args = append(args, *upd.FirstName)
		setClauses = append(setClauses, fmt.Sprintf("first_name=$%d", len(args)))
	}
	if upd.LastName != nil {
		args = append(args, *upd.LastName)
		setClauses = append(setClauses, fmt.Sprintf("last_name=$%d", len(args)))
	}
	if upd.Role != nil {
		args = append(args, *upd.Role)
		setClauses = append(setClauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if len(setClauses) == 0 {
		return s.Get(ctx, externalID)
	}
	setClauses = append(setClauses, "updated_at=NOW()")

	args = append(args, externalID)
	query := "UPDATE profiles SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE external_id=$%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
	}
	return s.Get(ctx, externalID)
}

func (s *ProfileStore) AppendCheckIn(ctx context.Context, externalID string, mood models.Mood, notes string) (*models.CheckIn, error) {
	if !mood.Valid() {
		return nil, fmt.Errorf("mood %q: %w", mood, models.ErrInvalidArgument)
	}
	ci := models.CheckIn{ID: uuid.NewString(), Mood: mood, Notes: notes}
	err := s.db.QueryRowxContext(ctx, `
		WITH p AS (SELECT id FROM profiles WHERE external_id = $1),
		ins AS (
			INSERT INTO check_ins (id, profile_id, mood, notes)
			SELECT $2, p.id, $3, $4 FROM p
			RETURNING created_at
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT id FROM p)
		RETURNING (SELECT created_at FROM ins)`,
		externalID, ci.ID, ci.Mood, ci.Notes).Scan(&ci.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("append check-in: %w", err)
	}
	return &ci, nil
}

func (s *ProfileStore) ListCheckIns(ctx context.Context, externalID string) ([]models.CheckIn, error) {
	profileID, err := s.profileID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	out := []models.CheckIn{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, mood, notes, created_at FROM check_ins WHERE profile_id=$1 ORDER BY created_at`, profileID); err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return out, nil
}

func (s *ProfileStore) profileID(ctx context.Context, externalID string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM profiles WHERE external_id=$1`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("lookup profile: %w", err)
	}
	return id, nil
}

func (s *ProfileStore) AppendPlannerEntry(ctx context.Context, externalID, timeOfDay, taskText string) (*models.PlannerEntry, error) {
	if taskText == "" {
		return nil, fmt.Errorf("task text is required: %w", models.ErrInvalidArgument)
	}
	entry := models.PlannerEntry{
		ID:        uuid.NewString(),
		TimeOfDay: timeOfDay,
		TaskText:  taskText,
		Status:    models.PlannerStatusPending,
	}
	err := s.db.QueryRowxContext(ctx, `
		WITH p AS (SELECT id FROM profiles WHERE external_id = $1),
		ins AS (
			INSERT INTO planner_entries (id, profile_id, time_of_day, task_text)
			SELECT $2, p.id, $3, $4 FROM p
			RETURNING created_at
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT id FROM p)
		RETURNING (SELECT created_at FROM ins)`,
		externalID, entry.ID, entry.TimeOfDay, entry.TaskText).Scan(&entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("append planner entry: %w", err)
	}
	return &entry, nil
}

func (s *ProfileStore) ListPlannerEntries(ctx context.Context, externalID string) ([]models.PlannerEntry, error) {
	profileID, err := s.profileID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	out := []models.PlannerEntry{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, time_of_day, task_text, status, created_at FROM planner_entries WHERE profile_id=$1 ORDER BY created_at`, profileID); err != nil {
		return nil, fmt.Errorf("list planner entries: %w", err)
	}
	return out, nil
}

func (s *ProfileStore) UpdatePlannerEntry(ctx context.Context, externalID, entryID string, upd store.PlannerEntryUpdate) (*models.PlannerEntry, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", *upd.Status, models.ErrInvalidArgument)
	}

	setClauses := []string{}
	args := []interface{}{}
	if upd.TimeOfDay != nil {
		args = append(args, *upd.TimeOfDay)
		setClauses = append(setClauses, fmt.Sprintf("time_of_day=$%d", len(args)))
	}
	if upd.TaskText != nil {
		args = append(args, *upd.TaskText)
		setClauses = append(setClauses, fmt.Sprintf("task_text=$%d", len(args)))
	}
	if upd.Status != nil {
		args = append(args, *upd.Status)
		setClauses = append(setClauses, fmt.Sprintf("status=$%d", len(args)))
	}

	entry := models.PlannerEntry{ID: entryID}
	if len(setClauses) == 0 {
		// Nothing to set; read the current entry.
		err := s.db.QueryRowxContext(ctx, `
			SELECT e.time_of_day, e.task_text, e.status, e.created_at
			FROM planner_entries e
			JOIN profiles p ON p.id = e.profile_id
			WHERE e.id = $1 AND p.external_id = $2`,
			entryID, externalID).Scan(&entry.TimeOfDay, &entry.TaskText, &entry.Status, &entry.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("planner entry %s: %w", entryID, models.ErrNotFound)
			}
			return nil, fmt.Errorf("get planner entry: %w", err)
		}
		return &entry, nil
	}

	args = append(args, entryID)
	entryArg := len(args)
	args = append(args, externalID)
	extArg := len(args)

	query := fmt.Sprintf(`
		WITH upd AS (
			UPDATE planner_entries e
			SET %s
			FROM profiles p
			WHERE e.id = $%d AND p.external_id = $%d AND e.profile_id = p.id
			RETURNING e.profile_id, e.time_of_day, e.task_text, e.status, e.created_at
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT profile_id FROM upd)
		RETURNING
			(SELECT time_of_day FROM upd),
			(SELECT task_text FROM upd),
			(SELECT status FROM upd),
			(SELECT created_at FROM upd)`,
		strings.Join(setClauses, ", "), entryArg, extArg)

	err := s.db.QueryRowxContext(ctx, query, args...).Scan(&entry.TimeOfDay, &entry.TaskText, &entry.Status, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("planner entry %s: %w", entryID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("update planner entry: %w", err)
	}
	return &entry, nil
}

func (s *ProfileStore) DeletePlannerEntry(ctx context.Context, externalID, entryID string) error {
	return s.deleteChild(ctx, "planner_entries", externalID, entryID)
}

func (s *ProfileStore) deleteChild(ctx context.Context, table, externalID, entryID string) error {
	query := fmt.Sprintf(`
		WITH del AS (
			DELETE FROM %s e
			USING profiles p
			WHERE e.id = $1 AND p.external_id = $2 AND e.profile_id = p.id
			RETURNING e.profile_id
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT profile_id FROM del)`, table)
	res, err := s.db.ExecContext(ctx, query, entryID, externalID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s: %w", entryID, models.ErrNotFound)
	}
	return nil
}

func (s *ProfileStore) AppendBrainDump(ctx context.Context, externalID, content string) (*models.BrainDumpEntry, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", models.ErrInvalidArgument)
	}
	entry := models.BrainDumpEntry{ID: uuid.NewString(), Content: content}
	err := s.db.QueryRowxContext(ctx, `
		WITH p AS (SELECT id FROM profiles WHERE external_id = $1),
		ins AS (
			INSERT INTO brain_dump_entries (id, profile_id, content)
			SELECT $2, p.id, $3 FROM p
			RETURNING created_at
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT id FROM p)
		RETURNING (SELECT created_at FROM ins)`,
		externalID, entry.ID, entry.Content).Scan(&entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("append brain dump: %w", err)
	}
	return &entry, nil
}

func (s *ProfileStore) DeleteBrainDump(ctx context.Context, externalID, entryID string) error {
	return s.deleteChild(ctx, "brain_dump_entries", externalID, entryID)
}

func (s *ProfileStore) AppendFocusSession(ctx context.Context, externalID string, durationMinutes int) (*models.FocusSession, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", models.ErrInvalidArgument)
	}
	fs := models.FocusSession{ID: uuid.NewString(), DurationMinutes: durationMinutes}
	err := s.db.QueryRowxContext(ctx, `
		WITH p AS (SELECT id FROM profiles WHERE external_id = $1),
		ins AS (
			INSERT INTO focus_sessions (id, profile_id, duration_minutes)
			SELECT $2, p.id, $3 FROM p
			RETURNING completed_at
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT id FROM p)
		RETURNING (SELECT completed_at FROM ins)`,
		externalID, fs.ID, fs.DurationMinutes).Scan(&fs.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", externalID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("append focus session: %w", err)
	}
	return &fs, nil
}

func (s *ProfileStore) AddToSet(ctx context.Context, externalID string, set models.MembershipSet, targetID string) (*models.Profile, error) {
	if !set.Valid() {
		return nil, fmt.Errorf("membership set %q: %w", set, models.ErrInvalidArgument)
	}
	if targetID == "" {
		return nil, fmt.Errorf("target id is required: %w", models.ErrInvalidArgument)
	}
	// ON CONFLICT DO NOTHING makes the add idempotent; updated_at only
	// moves when a row was actually inserted.
	_, err := s.db.ExecContext(ctx, `
		WITH p AS (SELECT id FROM profiles WHERE external_id = $1),
		ins AS (
			INSERT INTO profile_memberships (profile_id, set_name, target_id)
			SELECT p.id, $2, $3 FROM p
			ON CONFLICT DO NOTHING
			RETURNING profile_id
		)
		UPDATE profiles SET updated_at = NOW()
		WHERE id IN (SELECT profile_id FROM ins)`,
		externalID, set, targetID)
	if err != nil {
		return nil, fmt.Errorf("add to set: %w", err)
	}
	// Get reports NotFound when the profile never existed.
	return s.Get(ctx, externalID)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveResult reports what a sync batch did.
type SaveResult struct {
	Uploaded  int
	Conflicts int
	SyncedAt  time.Time
}

// SyncedWorkout is a stored copy of a client session.
type SyncedWorkout struct {
	ID           uuid.UUID  `json:"id"`
	ClientID     string     `json:"clientID"`
	UserID       string     `json:"userID"`
	DeviceID     string     `json:"deviceID"`
	Date         time.Time  `json:"date"`
	Name         string     `json:"name"`
	TemplateName string     `json:"templateName"`
	DurationSec  *int       `json:"durationSeconds,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	SyncedAt     time.Time  `json:"syncedAt"`
}

// SaveSyncedWorkouts upserts a batch keyed by the client-generated ids.
// Last write wins per workout: an incoming copy older than the stored
// one is counted as a conflict and dropped, along with its children.
// Each accepted workout's exercises and sets are replaced wholesale.
func (db *DB) SaveSyncedWorkouts(ctx context.Context, deviceID string, workouts []models.WorkoutSyncData) (*SaveResult, error) {
	syncedAt := time.Now().UTC()
	result := &SaveResult{SyncedAt: syncedAt}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning sync transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, w := range workouts {
		row, err := parseSyncedWorkout(deviceID, w, syncedAt)
		if err != nil {
			return nil, err
		}

		var workoutID uuid.UUID
		err = tx.QueryRow(ctx,
			`INSERT INTO synced_workouts (id, client_id, user_id, device_id, date, name, template_name,
			 duration_sec, is_completed, start_time, end_time, updated_at, synced_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			 ON CONFLICT (client_id) DO UPDATE SET
			   user_id = EXCLUDED.user_id, device_id = EXCLUDED.device_id, date = EXCLUDED.date,
			   name = EXCLUDED.name, template_name = EXCLUDED.template_name,
			   duration_sec = EXCLUDED.duration_sec, is_completed = EXCLUDED.is_completed,
			   start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			   updated_at = EXCLUDED.updated_at, synced_at = EXCLUDED.synced_at
			 WHERE synced_workouts.updated_at <= EXCLUDED.updated_at
			 RETURNING id`,
			row.ID, row.ClientID, row.UserID, row.DeviceID, row.Date, row.Name, row.TemplateName,
			row.DurationSec, row.IsCompleted, row.StartTime, row.EndTime, row.UpdatedAt, row.SyncedAt,
		).Scan(&workoutID)
		if errors.Is(err, pgx.ErrNoRows) {
			// Stored copy is newer.
			result.Conflicts++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("upserting synced workout %s: %w", w.ClientID, err)
		}

		if err := replaceChildren(ctx, tx, workoutID, w.Exercises); err != nil {
			return nil, err
		}
		result.Uploaded++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing sync transaction: %w", err)
	}
	return result, nil
}

func replaceChildren(ctx context.Context, tx pgx.Tx, workoutID uuid.UUID, exercises []models.ExerciseSyncData) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM synced_exercises WHERE workout_id = $1`, workoutID); err != nil {
		return fmt.Errorf("clearing synced exercises: %w", err)
	}

	for pos, ex := range exercises {
		var exerciseID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO synced_exercises (id, workout_id, client_id, position, exercise_name, muscle_groups)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 RETURNING id`,
			uuid.New(), workoutID, ex.ClientID, pos, ex.ExerciseName, strings.Join(ex.MuscleGroups, ","),
		).Scan(&exerciseID)
		if err != nil {
			return fmt.Errorf("inserting synced exercise: %w", err)
		}

		if len(ex.Sets) == 0 {
			continue
		}
		query := `INSERT INTO synced_sets (id, exercise_id, client_id, position, reps, weight, set_type, exercise_type_name, exercise_type_muscle_groups) VALUES `
		args := make([]any, 0, len(ex.Sets)*9)
		valueStrings := make([]string, 0, len(ex.Sets))
		for i, set := range ex.Sets {
			base := i * 9
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
			))
			args = append(args, uuid.New(), exerciseID, set.ClientID, i, set.Reps, set.Weight,
				set.SetType, set.ExerciseTypeName, strings.Join(set.ExerciseTypeMuscleGroups, ","))
		}
		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting synced sets: %w", err)
		}
	}
	return nil
}

// QueryWorkouts retrieves synced workouts in a time range, newest first.
// An empty userID matches all users.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID string) ([]SyncedWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, client_id, user_id, device_id, date, name, template_name,
		 duration_sec, is_completed, start_time, end_time, updated_at, synced_at
		 FROM synced_workouts
		 WHERE date >= $1 AND date < $2 AND ($3 = '' OR user_id = $3)
		 ORDER BY date DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying synced workouts: %w", err)
	}
	defer rows.Close()

	var result []SyncedWorkout
	for rows.Next() {
		var w SyncedWorkout
		if err := rows.Scan(&w.ID, &w.ClientID, &w.UserID, &w.DeviceID, &w.Date, &w.Name,
			&w.TemplateName, &w.DurationSec, &w.IsCompleted, &w.StartTime, &w.EndTime,
			&w.UpdatedAt, &w.SyncedAt); err != nil {
			return nil, fmt.Errorf("scanning synced workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func parseSyncedWorkout(deviceID string, w models.WorkoutSyncData, syncedAt time.Time) (*SyncedWorkout, error) {
	date, err := time.Parse(time.RFC3339, w.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing workout date %q: %w", w.Date, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing workout updated_at %q: %w", w.UpdatedAt, err)
	}

	row := &SyncedWorkout{
		ID:           uuid.New(),
		ClientID:     w.ClientID,
		UserID:       w.UserID,
		DeviceID:     deviceID,
		Date:         date,
		Name:         w.Name,
		TemplateName: w.TemplateName,
		DurationSec:  w.DurationSeconds,
		IsCompleted:  w.IsCompleted,
		UpdatedAt:    updatedAt,
		SyncedAt:     syncedAt,
	}
	if w.StartTime != "" {
		t, err := time.Parse(time.RFC3339, w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parsing workout start_time %q: %w", w.StartTime, err)
		}
		row.StartTime = &t
	}
	if w.EndTime != "" {
		t, err := time.Parse(time.RFC3339, w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("parsing workout end_time %q: %w", w.EndTime, err)
		}
		row.EndTime = &t
	}
	return row, nil
}

// Package history is the durable structured store for finished sessions:
// one workout row with nested exercise and set rows, queryable by id,
// date-sorted listing, and derived aggregate statistics.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Timestamps live in TEXT columns that ORDER BY compares byte-wise, so
// writes normalize to UTC with fixed-width fractions to keep string
// order identical to time order. Reads accept any RFC 3339 precision.
const (
	timeLayout  = time.RFC3339Nano
	storeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func storeTime(t time.Time) string {
	return t.UTC().Format(storeLayout)
}

const schema = `
CREATE TABLE IF NOT EXISTS workouts (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	date          TEXT NOT NULL,
	template_name TEXT NOT NULL,
	duration_sec  REAL,
	is_completed  INTEGER NOT NULL DEFAULT 0,
	start_time    TEXT,
	end_time      TEXT,
	synced_at     TEXT
);
CREATE TABLE IF NOT EXISTS workout_exercises (
	id            TEXT PRIMARY KEY,
	workout_id    TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	exercise_name TEXT NOT NULL,
	muscle_groups TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS workout_sets (
	id                 TEXT PRIMARY KEY,
	exercise_id        TEXT NOT NULL REFERENCES workout_exercises(id) ON DELETE CASCADE,
	position           INTEGER NOT NULL,
	reps               INTEGER NOT NULL,
	weight             REAL NOT NULL,
	set_type           TEXT NOT NULL,
	exercise_type_name TEXT NOT NULL,
	exercise_type_muscle_groups TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date);
CREATE INDEX IF NOT EXISTS idx_exercises_workout ON workout_exercises(workout_id);
CREATE INDEX IF NOT EXISTS idx_exercises_name ON workout_exercises(exercise_name);
CREATE INDEX IF NOT EXISTS idx_sets_exercise ON workout_sets(exercise_id);
`

// Repository stores completed workouts in a local SQLite database.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the history database at dir/history.db.
// A failure here is fatal by design: the app cannot run without its
// local store.
func Open(dir string, log *slog.Logger) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Repository{db: db, log: log}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Insert persists a finalized session and all nested exercises and sets
// in one transaction. A partial write is a correctness bug, so any
// failure rolls the whole workout back.
func (r *Repository) Insert(ctx context.Context, w models.TrackedWorkout) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workouts (id, user_id, date, template_name, duration_sec, is_completed, start_time, end_time, synced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		w.ID.String(), w.UserID, storeTime(w.Date), w.TemplateName,
		nullFloat(w.DurationSec), boolInt(w.IsCompleted),
		nullTime(w.StartTime), nullTime(w.EndTime))
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	for i, ex := range w.TrackedExercises {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO workout_exercises (id, workout_id, position, exercise_name, muscle_groups)
			 VALUES (?, ?, ?, ?, ?)`,
			ex.ID.String(), w.ID.String(), i, ex.ExerciseName, strings.Join(ex.MuscleGroups, ","))
		if err != nil {
			return fmt.Errorf("inserting exercise %d: %w", i, err)
		}

		for j, set := range ex.TrackedSets {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO workout_sets (id, exercise_id, position, reps, weight, set_type, exercise_type_name, exercise_type_muscle_groups)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				set.ID.String(), ex.ID.String(), j, set.Reps, set.Weight, string(set.SetType),
				set.ExerciseType.Name, strings.Join(models.MuscleGroupTags(set.ExerciseType.MuscleGroups), ","))
			if err != nil {
				return fmt.Errorf("inserting set %d/%d: %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

// FetchAll returns workouts sorted by date descending. An empty userID
// matches every stored workout.
func (r *Repository) FetchAll(ctx context.Context, userID string) ([]models.TrackedWorkout, error) {
	query := `SELECT id, user_id, date, template_name, duration_sec, is_completed, start_time, end_time
	          FROM workouts`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.TrackedWorkout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadExercises(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// FetchByID returns one workout with its nested structure, or nil when
// no workout has that id.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*models.TrackedWorkout, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, template_name, duration_sec, is_completed, start_time, end_time
		 FROM workouts WHERE id = ?`, id.String())

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadExercises(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a workout and, via cascade, its exercises and sets.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// Unsynced returns completed workouts that have not been marked synced,
// oldest first.
func (r *Repository) Unsynced(ctx context.Context, userID string) ([]models.TrackedWorkout, error) {
	query := `SELECT id, user_id, date, template_name, duration_sec, is_completed, start_time, end_time
	          FROM workouts WHERE is_completed = 1 AND synced_at IS NULL`
	var args []any
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced workouts: %w", err)
	}
	defer rows.Close()

	var result []models.TrackedWorkout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadExercises(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// MarkSynced stamps synced_at on the given workouts.
func (r *Repository) MarkSynced(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning mark-synced: %w", err)
	}
	defer tx.Rollback()

	stamp := storeTime(at)
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE workouts SET synced_at = ? WHERE id = ?`, stamp, id.String()); err != nil {
			return fmt.Errorf("marking %s synced: %w", id, err)
		}
	}
	return tx.Commit()
}

// SyncedAt returns the sync stamp for a workout, or nil when it has not
// been synced.
func (r *Repository) SyncedAt(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT synced_at FROM workouts WHERE id = ?`, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying synced_at: %w", err)
	}
	return parseNullTime(raw)
}

// loadExercises fills in the nested exercise and set structure.
func (r *Repository) loadExercises(ctx context.Context, w *models.TrackedWorkout) error {
	exRows, err := r.db.QueryContext(ctx,
		`SELECT id, exercise_name, muscle_groups FROM workout_exercises
		 WHERE workout_id = ? ORDER BY position ASC`, w.ID.String())
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	var exercises []models.TrackedExercise
	for exRows.Next() {
		var idStr, name, groups string
		if err := exRows.Scan(&idStr, &name, &groups); err != nil {
			return fmt.Errorf("scanning exercise: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("parsing exercise id: %w", err)
		}
		// Reinflate through the MuscleGroup domain so unrecognized
		// tags are dropped rather than failing the read.
		tags := models.MuscleGroupTags(models.ParseMuscleGroups(splitTags(groups)))
		exercises = append(exercises, models.TrackedExercise{
			ID:           id,
			ExerciseName: name,
			MuscleGroups: tags,
			TrackedSets:  []models.TrackedSet{},
		})
	}
	if err := exRows.Err(); err != nil {
		return err
	}

	for i := range exercises {
		setRows, err := r.db.QueryContext(ctx,
			`SELECT id, reps, weight, set_type, exercise_type_name, exercise_type_muscle_groups
			 FROM workout_sets WHERE exercise_id = ? ORDER BY position ASC`,
			exercises[i].ID.String())
		if err != nil {
			return fmt.Errorf("querying sets: %w", err)
		}

		for setRows.Next() {
			var idStr, setType, typeName, typeGroups string
			var reps int
			var weight float64
			if err := setRows.Scan(&idStr, &reps, &weight, &setType, &typeName, &typeGroups); err != nil {
				setRows.Close()
				return fmt.Errorf("scanning set: %w", err)
			}
			id, err := uuid.Parse(idStr)
			if err != nil {
				setRows.Close()
				return fmt.Errorf("parsing set id: %w", err)
			}
			exercises[i].TrackedSets = append(exercises[i].TrackedSets, models.TrackedSet{
				ID:      id,
				Reps:    reps,
				Weight:  weight,
				SetType: models.ParseSetType(setType),
				ExerciseType: models.ExerciseType{
					Name:         typeName,
					MuscleGroups: models.ParseMuscleGroups(splitTags(typeGroups)),
				},
			})
		}
		if err := setRows.Err(); err != nil {
			setRows.Close()
			return err
		}
		setRows.Close()
	}

	w.TrackedExercises = exercises
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.TrackedWorkout, error) {
	var idStr, userID, dateStr, templateName string
	var duration sql.NullFloat64
	var completed int
	var startStr, endStr sql.NullString

	err := row.Scan(&idStr, &userID, &dateStr, &templateName, &duration, &completed, &startStr, &endStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning workout: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing workout id: %w", err)
	}
	date, err := time.Parse(timeLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing workout date: %w", err)
	}
	start, err := parseNullTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseNullTime(endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}

	w := &models.TrackedWorkout{
		ID:           id,
		UserID:       userID,
		Date:         date,
		TemplateName: templateName,
		IsCompleted:  completed != 0,
		StartTime:    start,
		EndTime:      end,
	}
	if duration.Valid {
		d := duration.Float64
		w.DurationSec = &d
	}
	return w, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return storeTime(*t)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

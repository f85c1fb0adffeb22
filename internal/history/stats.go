package history

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// AggregateStats holds summary statistics over a user's completed
// workouts. TotalVolume is Σ(reps × weight) over every set.
type AggregateStats struct {
	TotalWorkouts   int            `json:"total_workouts"`
	TotalSets       int            `json:"total_sets"`
	TotalReps       int            `json:"total_reps"`
	TotalVolume     float64        `json:"total_volume"`
	CountByTemplate map[string]int `json:"count_by_template"`
}

// AggregateStats computes summary statistics. When completedOnly is set
// (the normal case), uncompleted rows are excluded. An empty userID
// matches every stored workout.
func (r *Repository) AggregateStats(ctx context.Context, userID string, completedOnly bool) (*AggregateStats, error) {
	where := `WHERE 1=1`
	var args []any
	if completedOnly {
		where += ` AND w.is_completed = 1`
	}
	if userID != "" {
		where += ` AND w.user_id = ?`
		args = append(args, userID)
	}

	stats := &AggregateStats{CountByTemplate: map[string]int{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workouts w `+where, args...,
	).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(s.id), COALESCE(SUM(s.reps), 0), COALESCE(SUM(s.reps * s.weight), 0)
		 FROM workout_sets s
		 JOIN workout_exercises e ON s.exercise_id = e.id
		 JOIN workouts w ON e.workout_id = w.id `+where, args...,
	).Scan(&stats.TotalSets, &stats.TotalReps, &stats.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("summing sets: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT w.template_name, COUNT(*) FROM workouts w `+where+` GROUP BY w.template_name`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("counting templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning template count: %w", err)
		}
		stats.CountByTemplate[name] = count
	}
	return stats, rows.Err()
}

// ProgressPoint is the best working set of one historical occurrence of
// an exercise.
type ProgressPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
}

// ExerciseProgress returns one point per completed-workout occurrence of
// the named exercise: the working set with the highest reps × weight
// (first seen wins ties), sorted by date ascending. Occurrences with no
// working sets are omitted.
func (r *Repository) ExerciseProgress(ctx context.Context, exerciseName string) ([]ProgressPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, w.date, s.reps, s.weight
		 FROM workout_sets s
		 JOIN workout_exercises e ON s.exercise_id = e.id
		 JOIN workouts w ON e.workout_id = w.id
		 WHERE e.exercise_name = ? AND s.set_type = ? AND w.is_completed = 1
		 ORDER BY w.date ASC, e.id, s.position ASC`,
		exerciseName, string(models.Working))
	if err != nil {
		return nil, fmt.Errorf("querying exercise progress: %w", err)
	}
	defer rows.Close()

	var points []ProgressPoint
	var currentID string
	var best *ProgressPoint

	flush := func() {
		if best != nil {
			points = append(points, *best)
			best = nil
		}
	}

	for rows.Next() {
		var exID, dateStr string
		var reps int
		var weight float64
		if err := rows.Scan(&exID, &dateStr, &reps, &weight); err != nil {
			return nil, fmt.Errorf("scanning progress row: %w", err)
		}
		date, err := time.Parse(timeLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing progress date: %w", err)
		}

		if exID != currentID {
			flush()
			currentID = exID
		}
		// Strict > keeps the first-seen set on equal volume.
		if best == nil || float64(reps)*weight > float64(best.Reps)*best.Weight {
			best = &ProgressPoint{Date: date, Weight: weight, Reps: reps}
		}
	}
	flush()
	return points, rows.Err()
}

// Exists reports whether a workout with the given id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workouts WHERE id = ?`, id.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking workout: %w", err)
	}
	return count > 0, nil
}

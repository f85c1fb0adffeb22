package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's synced data.
type DataStats struct {
	TotalWorkouts      int64          `json:"total_workouts"`
	TotalSets          int64          `json:"total_sets"`
	TotalVolume        float64        `json:"total_volume"`
	EarliestWorkout    *time.Time     `json:"earliest_workout"`
	LatestWorkout      *time.Time     `json:"latest_workout"`
	WorkoutsByTemplate []TemplateStat `json:"workouts_by_template"`
}

// TemplateStat holds summary stats for a single workout template.
type TemplateStat struct {
	Name          string  `json:"name"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
}

// GetDataStats returns aggregate statistics for a user's synced workouts.
// An empty userID aggregates across all users.
func (db *DB) GetDataStats(ctx context.Context, userID string) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(date), MAX(date)
		 FROM synced_workouts
		 WHERE is_completed AND ($1 = '' OR user_id = $1)`, userID,
	).Scan(&stats.TotalWorkouts, &stats.EarliestWorkout, &stats.LatestWorkout)
	if err != nil {
		return nil, fmt.Errorf("counting synced workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(s.reps * s.weight), 0)
		 FROM synced_sets s
		 JOIN synced_exercises e ON e.id = s.exercise_id
		 JOIN synced_workouts w ON w.id = e.workout_id
		 WHERE w.is_completed AND ($1 = '' OR w.user_id = $1)`, userID,
	).Scan(&stats.TotalSets, &stats.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("counting synced sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT template_name, COUNT(*), COALESCE(SUM(duration_sec), 0)
		 FROM synced_workouts
		 WHERE is_completed AND ($1 = '' OR user_id = $1)
		 GROUP BY template_name
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by template: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s TemplateStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalDuration); err != nil {
			return nil, fmt.Errorf("scanning template stat: %w", err)
		}
		stats.WorkoutsByTemplate = append(stats.WorkoutsByTemplate, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

package workout

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DayVolume is total volume lifted on one calendar day.
type DayVolume struct {
	Date   time.Time `json:"date"`
	Volume float64   `json:"volume"`
}

// ExerciseVolume is total volume for one exercise name across sessions.
type ExerciseVolume struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// VolumeByDay buckets workouts from the last windowDays (inclusive of
// now's day) by calendar day and sums their volume. Days with no
// workouts produce no bucket. Results are in ascending date order.
func VolumeByDay(workouts []models.TrackedWorkout, windowDays int, now time.Time) []DayVolume {
	cutoff := now.AddDate(0, 0, -windowDays)

	buckets := map[time.Time]float64{}
	for _, w := range workouts {
		if w.Date.Before(cutoff) {
			continue
		}
		y, m, d := w.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, w.Date.Location())
		buckets[day] += w.Volume()
	}

	out := make([]DayVolume, 0, len(buckets))
	for day, vol := range buckets {
		out = append(out, DayVolume{Date: day, Volume: vol})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TopExercisesByVolume ranks exercise names by total volume, descending.
// Ties break alphabetically so output is stable. A limit <= 0 returns
// the full ranking.
func TopExercisesByVolume(workouts []models.TrackedWorkout, limit int) []ExerciseVolume {
	totals := map[string]float64{}
	for _, w := range workouts {
		for _, ex := range w.TrackedExercises {
			if v := ex.Volume(); v > 0 {
				totals[ex.ExerciseName] += v
			}
		}
	}

	out := make([]ExerciseVolume, 0, len(totals))
	for name, vol := range totals {
		out = append(out, ExerciseVolume{Name: name, Volume: vol})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

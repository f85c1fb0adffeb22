package sync

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// timestampLayout is the fixed textual timestamp format on the wire.
const timestampLayout = time.RFC3339

// transformWorkout flattens a finalized session into transfer form.
// Client-generated ids ride along as correlation keys.
func transformWorkout(w models.TrackedWorkout, now time.Time) models.WorkoutSyncData {
	updatedAt := now.Format(timestampLayout)

	exercises := make([]models.ExerciseSyncData, len(w.TrackedExercises))
	for i, ex := range w.TrackedExercises {
		sets := make([]models.SetSyncData, len(ex.TrackedSets))
		for j, set := range ex.TrackedSets {
			sets[j] = models.SetSyncData{
				ClientID:                 set.ID.String(),
				Reps:                     set.Reps,
				Weight:                   set.Weight,
				SetType:                  string(set.SetType),
				ExerciseTypeName:         set.ExerciseType.Name,
				ExerciseTypeMuscleGroups: models.MuscleGroupTags(set.ExerciseType.MuscleGroups),
				UpdatedAt:                updatedAt,
			}
		}
		exercises[i] = models.ExerciseSyncData{
			ClientID:     ex.ID.String(),
			ExerciseName: ex.ExerciseName,
			MuscleGroups: ex.MuscleGroups,
			Sets:         sets,
			UpdatedAt:    updatedAt,
		}
	}

	data := models.WorkoutSyncData{
		ClientID:     w.ID.String(),
		UserID:       w.UserID,
		Date:         w.Date.Format(timestampLayout),
		Name:         w.TemplateName,
		IsCompleted:  w.IsCompleted,
		TemplateName: w.TemplateName,
		Exercises:    exercises,
		UpdatedAt:    updatedAt,
	}
	if w.DurationSec != nil {
		secs := int(*w.DurationSec)
		data.DurationSeconds = &secs
	}
	if w.StartTime != nil {
		data.StartTime = w.StartTime.Format(timestampLayout)
	}
	if w.EndTime != nil {
		data.EndTime = w.EndTime.Format(timestampLayout)
	}
	return data
}

// Package catalog holds the built-in workout templates. Templates are
// immutable: sessions copy what they need at start and never write back.
package catalog

import (
	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Template IDs are fixed so references recorded in sessions and on the
// sync server stay valid across restarts and releases.
var (
	pushDayID = uuid.MustParse("5f1c2a84-7d3e-4b96-8a05-c41f9d62e713")
	pullDayID = uuid.MustParse("9b7e4d20-1a58-4c3f-b6d9-2e84f07a5c61")
	legDayID  = uuid.MustParse("3d82f6b5-c09a-47e1-9f24-6a5b8e31d0c7")
)

// PushDay is the pressing-focused hypertrophy template.
var PushDay = models.Workout{
	ID:   pushDayID,
	Name: "Push Day (Hypertrophy Focus)",
	Exercises: []models.Exercise{
		{
			Type:               models.ExerciseType{Name: "Barbell Bench Press", MuscleGroups: []models.MuscleGroup{models.Chest}},
			DemoMedia:          "https://www.youtube.com/watch?v=nQL5ieH39sw",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        3,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 3, Max: 5},
		},
		{
			Type:               models.ExerciseType{Name: "Machine Shoulder Press", MuscleGroups: []models.MuscleGroup{models.Shoulders}},
			DemoMedia:          "https://www.youtube.com/watch?v=SCQVmN1gYsk",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "Bottom-Half DB Flye", MuscleGroups: []models.MuscleGroup{models.Chest}},
			DemoMedia:          "https://www.youtube.com/watch?v=qJzc-iHKGdg",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "High-Cable Lateral Raise", MuscleGroups: []models.MuscleGroup{models.Shoulders}},
			DemoMedia:          "https://www.youtube.com/watch?v=MnMux3Wc0Ac",
			IntensityTechnique: "Myo-Reps",
			WarmupSets:         1,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Overhead Cable Triceps Extension", MuscleGroups: []models.MuscleGroup{models.Triceps}},
			DemoMedia:          "https://www.youtube.com/watch?v=9_I1PqZAjdA",
			IntensityTechnique: "Failure",
			WarmupSets:         1,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Cable Triceps Kickback", MuscleGroups: []models.MuscleGroup{models.Triceps}},
			DemoMedia:          "https://www.youtube.com/watch?v=oRxTKRtP8RE",
			IntensityTechnique: "Myo-Reps",
			WarmupSets:         1,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 12, Max: 15},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Roman Chair Leg Raise", MuscleGroups: []models.MuscleGroup{models.Abs}},
			DemoMedia:          "https://www.youtube.com/watch?v=irOzFVqJ0IE",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 20},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
	},
}

// PullDay is the pulling-focused hypertrophy template.
var PullDay = models.Workout{
	ID:   pullDayID,
	Name: "Pull Day (Hypertrophy Focus)",
	Exercises: []models.Exercise{
		{
			Type:               models.ExerciseType{Name: "Neutral-Grip Lat Pulldown", MuscleGroups: []models.MuscleGroup{models.Back, models.Biceps}},
			DemoMedia:          "https://www.youtube.com/watch?v=lA4_1F9EAFU",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "Chest-Supported Machine Row", MuscleGroups: []models.MuscleGroup{models.Back}},
			DemoMedia:          "https://www.youtube.com/watch?v=ijsSiWSzYw0",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        3,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "Neutral-Grip Seated Cable Row", MuscleGroups: []models.MuscleGroup{models.Back}},
			DemoMedia:          "https://www.youtube.com/watch?v=hM7XHxQgvLk",
			IntensityTechnique: "Failure + LLPs (Extended set)",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "1-Arm 45° Cable Rear Delt Flye", MuscleGroups: []models.MuscleGroup{models.Shoulders}},
			DemoMedia:          "https://www.youtube.com/watch?v=6G5DmVaocGM",
			IntensityTechnique: "Myo-Reps",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Machine Shrug", MuscleGroups: []models.MuscleGroup{models.Shoulders}},
			DemoMedia:          "https://www.youtube.com/watch?v=ua0XuKwKQ9M",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "EZ-Bar Cable Curl", MuscleGroups: []models.MuscleGroup{models.Biceps}},
			DemoMedia:          "https://www.youtube.com/watch?v=ck1zjNTnFew",
			IntensityTechnique: "Failure",
			WarmupSets:         1,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Machine Preacher Curl", MuscleGroups: []models.MuscleGroup{models.Biceps}},
			DemoMedia:          "https://www.youtube.com/watch?v=R2iUnBxFtis",
			IntensityTechnique: "Myo-Reps",
			WarmupSets:         1,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 12, Max: 15},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
	},
}

// LegDay is the lower-body hypertrophy template.
var LegDay = models.Workout{
	ID:   legDayID,
	Name: "Legs (Hypertrophy Focus)",
	Exercises: []models.Exercise{
		{
			Type:               models.ExerciseType{Name: "Leg Press", MuscleGroups: []models.MuscleGroup{models.Quads, models.Hamstrings}},
			DemoMedia:          "https://www.youtube.com/watch?v=1yKAQLVV_XI",
			IntensityTechnique: "Failure",
			WarmupSets:         3,
			WorkingSets:        3,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "Seated Leg Curl", MuscleGroups: []models.MuscleGroup{models.Hamstrings}},
			DemoMedia:          "https://www.youtube.com/watch?v=yv0aAY7M1mk",
			IntensityTechnique: "Failure + LLPs (Extended set)",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "DB Bulgarian Split Squat", MuscleGroups: []models.MuscleGroup{models.Glutes, models.Hamstrings, models.Quads}},
			DemoMedia:          "https://www.youtube.com/watch?v=htDXu61MPio",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 8, Max: 10},
			RestMinutes:        models.IntRange{Min: 2, Max: 3},
		},
		{
			Type:               models.ExerciseType{Name: "Leg Extension", MuscleGroups: []models.MuscleGroup{models.Quads}},
			DemoMedia:          "https://www.youtube.com/watch?v=uFbNtqP966A",
			IntensityTechnique: "Myo-Reps",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Machine Hip-Adduction", MuscleGroups: []models.MuscleGroup{models.Glutes}},
			DemoMedia:          "https://www.youtube.com/watch?v=FMSCZYu1JhE",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Machine Hip Abduction", MuscleGroups: []models.MuscleGroup{models.Glutes}},
			DemoMedia:          "https://www.youtube.com/watch?v=pozooPg6PBE",
			IntensityTechnique: "Failure",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
		{
			Type:               models.ExerciseType{Name: "Standing Calf Raise", MuscleGroups: []models.MuscleGroup{models.Calves}},
			DemoMedia:          "https://www.youtube.com/watch?v=6lR2JdxUh7w",
			IntensityTechnique: "Static Stretch (30sec)",
			WarmupSets:         2,
			WorkingSets:        2,
			RepRange:           models.IntRange{Min: 10, Max: 12},
			RestMinutes:        models.IntRange{Min: 1, Max: 2},
		},
	},
}

// All lists every built-in template in display order.
func All() []models.Workout {
	return []models.Workout{PushDay, PullDay, LegDay}
}

// ByName looks up a built-in template by its display name.
func ByName(name string) (models.Workout, bool) {
	for _, w := range All() {
		if w.Name == name {
			return w, true
		}
	}
	return models.Workout{}, false
}

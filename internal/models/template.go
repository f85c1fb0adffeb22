package models

import "github.com/google/uuid"

// ExerciseType names a movement and the muscle groups it targets.
// Value semantics: two types are equal when name and groups match.
type ExerciseType struct {
	Name         string
	MuscleGroups []MuscleGroup
}

// Equal reports whether two exercise types describe the same movement.
func (t ExerciseType) Equal(other ExerciseType) bool {
	if t.Name != other.Name || len(t.MuscleGroups) != len(other.MuscleGroups) {
		return false
	}
	for i, g := range t.MuscleGroups {
		if other.MuscleGroups[i] != g {
			return false
		}
	}
	return true
}

// IntRange is an inclusive [Min, Max] range with Min <= Max.
type IntRange struct {
	Min int
	Max int
}

// Exercise is an immutable template entry: a movement plus its
// prescription (set counts, rep range, rest). Defined at build time.
type Exercise struct {
	Type               ExerciseType
	DemoMedia          string
	IntensityTechnique string
	WarmupSets         int
	WorkingSets        int
	RepRange           IntRange
	RestMinutes        IntRange
}

// Workout is an immutable template from the catalog. Sessions are seeded
// from its ordered exercise list.
type Workout struct {
	ID        uuid.UUID
	Name      string
	Exercises []Exercise
}

package models

// MuscleGroup identifies a primary muscle targeted by an exercise.
type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Back       MuscleGroup = "back"
	Shoulders  MuscleGroup = "shoulders"
	Biceps     MuscleGroup = "biceps"
	Triceps    MuscleGroup = "triceps"
	Quads      MuscleGroup = "quads"
	Hamstrings MuscleGroup = "hamstrings"
	Glutes     MuscleGroup = "glutes"
	Calves     MuscleGroup = "calves"
	Abs        MuscleGroup = "abs"
)

// AllMuscleGroups lists every known muscle group.
var AllMuscleGroups = []MuscleGroup{
	Chest, Back, Shoulders, Biceps, Triceps,
	Quads, Hamstrings, Glutes, Calves, Abs,
}

// ParseMuscleGroup converts a stored tag back to a MuscleGroup.
// Returns false for tags this build doesn't know about.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	for _, g := range AllMuscleGroups {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// ParseMuscleGroups reinflates a flattened tag list, silently dropping
// unrecognized tags rather than failing the read.
func ParseMuscleGroups(tags []string) []MuscleGroup {
	var groups []MuscleGroup
	for _, t := range tags {
		if g, ok := ParseMuscleGroup(t); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// MuscleGroupTags flattens muscle groups into plain strings for storage.
func MuscleGroupTags(groups []MuscleGroup) []string {
	tags := make([]string, len(groups))
	for i, g := range groups {
		tags[i] = string(g)
	}
	return tags
}

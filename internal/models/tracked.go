package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SetType distinguishes effort-counted working sets from preparatory
// warm-up sets.
type SetType string

const (
	Warmup  SetType = "warmup"
	Working SetType = "working"
)

// ParseSetType converts a stored tag to a SetType, defaulting unknown
// values to Working.
func ParseSetType(s string) SetType {
	if s == string(Warmup) {
		return Warmup
	}
	return Working
}

// TrackedSet is one logged set. Identity is the id; equality is
// full-field (id, reps, weight, set type, exercise type).
type TrackedSet struct {
	ID           uuid.UUID
	Reps         int
	Weight       float64
	SetType      SetType
	ExerciseType ExerciseType
}

// NewTrackedSet mints a set with a fresh id.
func NewTrackedSet(reps int, weight float64, setType SetType, exerciseType ExerciseType) TrackedSet {
	return TrackedSet{
		ID:           uuid.New(),
		Reps:         reps,
		Weight:       weight,
		SetType:      setType,
		ExerciseType: exerciseType,
	}
}

// Equal compares every field, including the set type.
func (s TrackedSet) Equal(other TrackedSet) bool {
	return s.ID == other.ID &&
		s.Reps == other.Reps &&
		s.Weight == other.Weight &&
		s.SetType == other.SetType &&
		s.ExerciseType.Equal(other.ExerciseType)
}

// Volume is the effort metric for one set: reps × weight.
func (s TrackedSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// trackedSetJSON is the wire/slot layout: the exercise type is flattened
// into a name plus muscle-group tags.
type trackedSetJSON struct {
	ID                       uuid.UUID `json:"id"`
	Reps                     int       `json:"reps"`
	Weight                   float64   `json:"weight"`
	SetType                  SetType   `json:"setType"`
	ExerciseTypeName         string    `json:"exerciseTypeName"`
	ExerciseTypeMuscleGroups []string  `json:"exerciseTypeMuscleGroups"`
}

// MarshalJSON flattens the nested ExerciseType.
func (s TrackedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackedSetJSON{
		ID:                       s.ID,
		Reps:                     s.Reps,
		Weight:                   s.Weight,
		SetType:                  s.SetType,
		ExerciseTypeName:         s.ExerciseType.Name,
		ExerciseTypeMuscleGroups: MuscleGroupTags(s.ExerciseType.MuscleGroups),
	})
}

// UnmarshalJSON reinflates the exercise type, dropping unknown muscle
// tags. A missing id gets backfilled so old slot data stays loadable.
func (s *TrackedSet) UnmarshalJSON(data []byte) error {
	var raw trackedSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	*s = TrackedSet{
		ID:      id,
		Reps:    raw.Reps,
		Weight:  raw.Weight,
		SetType: ParseSetType(string(raw.SetType)),
		ExerciseType: ExerciseType{
			Name:         raw.ExerciseTypeName,
			MuscleGroups: ParseMuscleGroups(raw.ExerciseTypeMuscleGroups),
		},
	}
	return nil
}

// TrackedExercise is one exercise slot within a session. The slot order
// mirrors the template and never changes; only the set list mutates.
type TrackedExercise struct {
	ID           uuid.UUID    `json:"id"`
	ExerciseName string       `json:"exerciseName"`
	MuscleGroups []string     `json:"muscleGroups"`
	TrackedSets  []TrackedSet `json:"trackedSets"`
}

// IsCompleted is derived: an exercise counts as done once any set is logged.
func (e TrackedExercise) IsCompleted() bool {
	return len(e.TrackedSets) > 0
}

// Volume sums reps × weight over the exercise's sets.
func (e TrackedExercise) Volume() float64 {
	var total float64
	for _, s := range e.TrackedSets {
		total += s.Volume()
	}
	return total
}

// Clone deep-copies the exercise and its sets.
func (e TrackedExercise) Clone() TrackedExercise {
	out := e
	out.MuscleGroups = append([]string(nil), e.MuscleGroups...)
	out.TrackedSets = append([]TrackedSet(nil), e.TrackedSets...)
	for i := range out.TrackedSets {
		out.TrackedSets[i].ExerciseType.MuscleGroups =
			append([]MuscleGroup(nil), out.TrackedSets[i].ExerciseType.MuscleGroups...)
	}
	return out
}

// TrackedWorkout is a session: created from a template, mutated while
// active, immutable once IsCompleted is set.
type TrackedWorkout struct {
	ID               uuid.UUID         `json:"id"`
	UserID           string            `json:"userID,omitempty"`
	Date             time.Time         `json:"date"`
	TemplateName     string            `json:"workoutTemplate"`
	DurationSec      *float64          `json:"duration,omitempty"`
	TrackedExercises []TrackedExercise `json:"trackedExercises"`
	IsCompleted      bool              `json:"isCompleted"`
	StartTime        *time.Time        `json:"startTime,omitempty"`
	EndTime          *time.Time        `json:"endTime,omitempty"`
}

// NewTrackedWorkout seeds a session from a template: one empty tracked
// exercise per template exercise, in template order.
func NewTrackedWorkout(template Workout, userID string, now time.Time) TrackedWorkout {
	exercises := make([]TrackedExercise, len(template.Exercises))
	for i, ex := range template.Exercises {
		exercises[i] = TrackedExercise{
			ID:           uuid.New(),
			ExerciseName: ex.Type.Name,
			MuscleGroups: MuscleGroupTags(ex.Type.MuscleGroups),
			TrackedSets:  []TrackedSet{},
		}
	}
	start := now
	return TrackedWorkout{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             now,
		TemplateName:     template.Name,
		TrackedExercises: exercises,
		StartTime:        &start,
	}
}

// Volume sums reps × weight over every set in the session.
func (w TrackedWorkout) Volume() float64 {
	var total float64
	for _, e := range w.TrackedExercises {
		total += e.Volume()
	}
	return total
}

// Clone deep-copies the workout so a snapshot handed to background work
// can never alias a live session.
func (w TrackedWorkout) Clone() TrackedWorkout {
	out := w
	if w.DurationSec != nil {
		d := *w.DurationSec
		out.DurationSec = &d
	}
	if w.StartTime != nil {
		t := *w.StartTime
		out.StartTime = &t
	}
	if w.EndTime != nil {
		t := *w.EndTime
		out.EndTime = &t
	}
	out.TrackedExercises = make([]TrackedExercise, len(w.TrackedExercises))
	for i, e := range w.TrackedExercises {
		out.TrackedExercises[i] = e.Clone()
	}
	return out
}

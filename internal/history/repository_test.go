package history

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func workingSet(reps int, weight float64, exercise string) models.TrackedSet {
	return models.NewTrackedSet(reps, weight, models.Working,
		models.ExerciseType{Name: exercise, MuscleGroups: []models.MuscleGroup{models.Chest}})
}

func warmupSet(reps int, weight float64, exercise string) models.TrackedSet {
	return models.NewTrackedSet(reps, weight, models.Warmup,
		models.ExerciseType{Name: exercise, MuscleGroups: []models.MuscleGroup{models.Chest}})
}

// completedWorkout builds a finished session with one exercise holding
// the given sets.
func completedWorkout(exercise string, date time.Time, sets ...models.TrackedSet) models.TrackedWorkout {
	end := date.Add(45 * time.Minute)
	dur := end.Sub(date).Seconds()
	return models.TrackedWorkout{
		ID:           uuid.New(),
		UserID:       "u1",
		Date:         date,
		TemplateName: "Push Day",
		DurationSec:  &dur,
		TrackedExercises: []models.TrackedExercise{
			{ID: uuid.New(), ExerciseName: exercise, MuscleGroups: []string{"chest"}, TrackedSets: sets},
		},
		IsCompleted: true,
		StartTime:   &date,
		EndTime:     &end,
	}
}

// TestInsertFetchRoundTrip verifies the nested workout structure
// survives storage: exercises in order, sets in order, types intact.
func TestInsertFetchRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	w := completedWorkout("Barbell Bench Press", time.Now().UTC(),
		warmupSet(10, 60, "Barbell Bench Press"),
		workingSet(8, 100, "Barbell Bench Press"),
		workingSet(6, 105, "Barbell Bench Press"),
	)
	w.TrackedExercises = append(w.TrackedExercises, models.TrackedExercise{
		ID: uuid.New(), ExerciseName: "Machine Shoulder Press",
		MuscleGroups: []string{"shoulders"},
		TrackedSets:  []models.TrackedSet{workingSet(10, 40, "Machine Shoulder Press")},
	})

	if err := repo.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FetchByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got == nil {
		t.Fatal("fetch returned nil for stored workout")
	}

	if got.TemplateName != w.TemplateName || got.UserID != "u1" || !got.IsCompleted {
		t.Errorf("header = %+v, want template %q user u1 completed", got, w.TemplateName)
	}
	if len(got.TrackedExercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(got.TrackedExercises))
	}
	if got.TrackedExercises[0].ExerciseName != "Barbell Bench Press" {
		t.Errorf("exercise order: first = %q", got.TrackedExercises[0].ExerciseName)
	}

	sets := got.TrackedExercises[0].TrackedSets
	if len(sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(sets))
	}
	for i, want := range w.TrackedExercises[0].TrackedSets {
		if !sets[i].Equal(want) {
			t.Errorf("set %d = %+v, want %+v", i, sets[i], want)
		}
	}
	if got.Volume() != w.Volume() {
		t.Errorf("volume = %v, want %v", got.Volume(), w.Volume())
	}
}

// TestFetchAllOrdersMixedOffsetsAndPrecision verifies date ordering is
// chronological even when stored stamps mix UTC offsets and fractional
// seconds, which a naive text sort gets wrong.
func TestFetchAllOrdersMixedOffsetsAndPrecision(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	// 20:00Z expressed in a +05:00 zone: its local date string sorts
	// after the others despite being the oldest instant.
	oldest := completedWorkout("Leg Press",
		time.Date(2026, 1, 2, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
		workingSet(8, 200, "Leg Press"))
	middle := completedWorkout("Leg Press",
		time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
		workingSet(8, 210, "Leg Press"))
	newest := completedWorkout("Leg Press",
		time.Date(2026, 1, 1, 23, 0, 0, 500_000_000, time.UTC),
		workingSet(8, 220, "Leg Press"))

	for _, w := range []models.TrackedWorkout{oldest, middle, newest} {
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.FetchAll(ctx, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("workouts = %d, want 3", len(got))
	}
	wantOrder := []uuid.UUID{newest.ID, middle.ID, oldest.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s (%v), want %s", i, got[i].ID, got[i].Date, want)
		}
	}
	if !got[2].Date.Equal(oldest.Date) {
		t.Errorf("date = %v, want instant %v", got[2].Date, oldest.Date)
	}
}

// TestFetchByIDMissing verifies an unknown id yields nil, not an error.
func TestFetchByIDMissing(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.FetchByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != nil {
		t.Errorf("fetch = %+v, want nil", got)
	}
}

// TestFetchAllSortedByDateDesc verifies listing order and user filtering.
func TestFetchAllSortedByDateDesc(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	old := completedWorkout("Leg Press", base, workingSet(10, 180, "Leg Press"))
	mid := completedWorkout("Leg Press", base.AddDate(0, 0, 2), workingSet(10, 185, "Leg Press"))
	newest := completedWorkout("Leg Press", base.AddDate(0, 0, 4), workingSet(10, 190, "Leg Press"))
	other := completedWorkout("Leg Press", base.AddDate(0, 0, 1), workingSet(8, 150, "Leg Press"))
	other.UserID = "u2"

	for _, w := range []models.TrackedWorkout{old, newest, other, mid} {
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.FetchAll(ctx, "u1")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("workouts = %d, want 3", len(got))
	}
	wantOrder := []uuid.UUID{newest.ID, mid.ID, old.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}

	all, err := repo.FetchAll(ctx, "")
	if err != nil {
		t.Fatalf("fetch all users: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all users = %d workouts, want 4", len(all))
	}
}

// TestDeleteCascades verifies deleting a workout removes its nested rows.
func TestDeleteCascades(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	w := completedWorkout("Leg Press", time.Now().UTC(), workingSet(10, 180, "Leg Press"))
	if err := repo.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Delete(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.FetchByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != nil {
		t.Error("workout still present after delete")
	}

	var sets int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM workout_sets`).Scan(&sets); err != nil {
		t.Fatalf("counting sets: %v", err)
	}
	if sets != 0 {
		t.Errorf("orphaned set rows = %d, want 0", sets)
	}
}

// TestAggregateStatsVolumeLaw verifies TotalVolume equals the sum of the
// stored workouts' volumes and the per-template counts line up.
func TestAggregateStatsVolumeLaw(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	a := completedWorkout("Barbell Bench Press", time.Now().UTC(),
		workingSet(8, 100, "Barbell Bench Press"), workingSet(8, 100, "Barbell Bench Press"))
	b := completedWorkout("Leg Press", time.Now().UTC().Add(time.Hour), workingSet(10, 180, "Leg Press"))
	b.TemplateName = "Legs"
	incomplete := completedWorkout("Leg Press", time.Now().UTC().Add(2*time.Hour), workingSet(10, 500, "Leg Press"))
	incomplete.IsCompleted = false

	for _, w := range []models.TrackedWorkout{a, b, incomplete} {
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	stats, err := repo.AggregateStats(ctx, "u1", true)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalWorkouts != 2 {
		t.Errorf("totalWorkouts = %d, want 2", stats.TotalWorkouts)
	}
	if stats.TotalSets != 3 {
		t.Errorf("totalSets = %d, want 3", stats.TotalSets)
	}
	if want := 8 + 8 + 10; stats.TotalReps != want {
		t.Errorf("totalReps = %d, want %d", stats.TotalReps, want)
	}
	if want := a.Volume() + b.Volume(); stats.TotalVolume != want {
		t.Errorf("totalVolume = %v, want %v", stats.TotalVolume, want)
	}
	if stats.CountByTemplate["Push Day"] != 1 || stats.CountByTemplate["Legs"] != 1 {
		t.Errorf("countByTemplate = %v", stats.CountByTemplate)
	}
}

// TestExerciseProgressBestSet verifies the best working set per
// occurrence: highest reps × weight wins, warm-ups never count.
func TestExerciseProgressBestSet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)

	// 8×100=800 beats 6×120=720. The warm-up at 10×110 would outscore
	// both but must be ignored.
	w1 := completedWorkout("Barbell Bench Press", day1,
		warmupSet(10, 110, "Barbell Bench Press"),
		workingSet(8, 100, "Barbell Bench Press"),
		workingSet(6, 120, "Barbell Bench Press"))
	w2 := completedWorkout("Barbell Bench Press", day2,
		workingSet(8, 105, "Barbell Bench Press"))

	for _, w := range []models.TrackedWorkout{w2, w1} {
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	points, err := repo.ExerciseProgress(ctx, "Barbell Bench Press")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Weight != 100 || points[0].Reps != 8 {
		t.Errorf("day1 best = %v x %d, want 100 x 8", points[0].Weight, points[0].Reps)
	}
	if points[1].Weight != 105 || points[1].Reps != 8 {
		t.Errorf("day2 best = %v x %d, want 105 x 8", points[1].Weight, points[1].Reps)
	}
	if !points[0].Date.Before(points[1].Date) {
		t.Error("points not sorted by date ascending")
	}
}

// TestExerciseProgressTieKeepsFirst verifies equal-volume sets resolve
// to the earlier set in the session.
func TestExerciseProgressTieKeepsFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	// 10×80 and 8×100 both score 800: the first logged set wins.
	w := completedWorkout("Seated Leg Curl", time.Now().UTC(),
		workingSet(10, 80, "Seated Leg Curl"),
		workingSet(8, 100, "Seated Leg Curl"))
	if err := repo.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}

	points, err := repo.ExerciseProgress(ctx, "Seated Leg Curl")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].Reps != 10 || points[0].Weight != 80 {
		t.Errorf("best = %v x %d, want 80 x 10", points[0].Weight, points[0].Reps)
	}
}

// TestExerciseProgressSkipsWorkoutsWithoutWorkingSets verifies an
// occurrence with only warm-ups contributes no point.
func TestExerciseProgressSkipsWorkoutsWithoutWorkingSets(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	w := completedWorkout("Leg Extension", time.Now().UTC(), warmupSet(12, 40, "Leg Extension"))
	if err := repo.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}

	points, err := repo.ExerciseProgress(ctx, "Leg Extension")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("points = %d, want 0", len(points))
	}
}

// TestUnsyncedAndMarkSynced verifies sync bookkeeping: completed
// workouts start unsynced, stamping removes them from the pending list.
func TestUnsyncedAndMarkSynced(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	w1 := completedWorkout("Leg Press", time.Now().UTC(), workingSet(10, 180, "Leg Press"))
	w2 := completedWorkout("Leg Press", time.Now().UTC().Add(time.Hour), workingSet(10, 185, "Leg Press"))
	for _, w := range []models.TrackedWorkout{w1, w2} {
		if err := repo.Insert(ctx, w); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pending, err := repo.Unsynced(ctx, "")
	if err != nil {
		t.Fatalf("unsynced: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].ID != w1.ID {
		t.Error("pending not sorted oldest first")
	}

	stamp := time.Now().UTC().Truncate(time.Millisecond)
	if err := repo.MarkSynced(ctx, []uuid.UUID{w1.ID}, stamp); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	pending, err = repo.Unsynced(ctx, "")
	if err != nil {
		t.Fatalf("unsynced: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != w2.ID {
		t.Errorf("pending after stamp = %v", pending)
	}

	at, err := repo.SyncedAt(ctx, w1.ID)
	if err != nil {
		t.Fatalf("syncedAt: %v", err)
	}
	if at == nil || !at.Equal(stamp) {
		t.Errorf("syncedAt = %v, want %v", at, stamp)
	}
}

// TestUnknownMuscleTagsDroppedOnRead verifies rows written by a newer
// build with extra muscle tags still load.
func TestUnknownMuscleTagsDroppedOnRead(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	w := completedWorkout("Cable Row", time.Now().UTC(), workingSet(10, 70, "Cable Row"))
	if err := repo.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.db.Exec(
		`UPDATE workout_exercises SET muscle_groups = 'back,forearms' WHERE id = ?`,
		w.TrackedExercises[0].ID.String()); err != nil {
		t.Fatalf("tampering muscle groups: %v", err)
	}

	got, err := repo.FetchByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if tags := got.TrackedExercises[0].MuscleGroups; len(tags) != 1 || tags[0] != "back" {
		t.Errorf("muscle groups = %v, want [back]", tags)
	}
}

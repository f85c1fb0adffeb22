package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSlot(t *testing.T, dir string) *Slot {
	t.Helper()
	slot, err := OpenSlot(dir)
	if err != nil {
		t.Fatalf("opening slot: %v", err)
	}
	t.Cleanup(func() { slot.Close() })
	return slot
}

func testSet(reps int, weight float64) models.TrackedSet {
	return models.NewTrackedSet(reps, weight, models.Working,
		models.ExerciseType{Name: "Barbell Bench Press", MuscleGroups: []models.MuscleGroup{models.Chest}})
}

// TestStartSessionRejectsSecondSession verifies the single-active-session
// rule: starting over an in-progress session fails, it never silently
// replaces logged work.
func TestStartSessionRejectsSecondSession(t *testing.T) {
	store := NewStore(openTestSlot(t, t.TempDir()), 0, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := store.StartSession(catalog.PullDay, "u1"); err != ErrSessionActive {
		t.Fatalf("second start err = %v, want ErrSessionActive", err)
	}

	// Abandon clears the way for a fresh session.
	store.Abandon()
	if _, err := store.StartSession(catalog.PullDay, "u1"); err != nil {
		t.Fatalf("start after abandon: %v", err)
	}
}

// TestMutationsPersistImmediately verifies every mutation is readable
// from the slot before the periodic save interval has a chance to fire.
func TestMutationsPersistImmediately(t *testing.T) {
	dir := t.TempDir()
	slot := openTestSlot(t, dir)
	store := NewStore(slot, time.Hour, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.AppendSet(0, testSet(8, 100))
	store.AppendSet(0, testSet(8, 102.5))

	saved, err := slot.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved == nil {
		t.Fatal("slot empty after mutations")
	}
	if got := len(saved.TrackedExercises[0].TrackedSets); got != 2 {
		t.Errorf("persisted sets = %d, want 2", got)
	}
}

// TestRecoverAfterRestart simulates a crash mid-session: a new store over
// the same slot adopts the persisted session with all logged sets.
func TestRecoverAfterRestart(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(openTestSlot(t, dir), time.Hour, testLogger())
	started, err := store.StartSession(catalog.PushDay, "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	store.AppendSet(0, testSet(8, 100))
	store.AppendSet(0, testSet(8, 102.5))
	// No EndSession, no Close: crash.

	recovered := NewStore(openTestSlot(t, dir), time.Hour, testLogger())
	defer recovered.Close()

	active := recovered.Active()
	if active == nil {
		t.Fatal("no session recovered")
	}
	if active.ID != started.ID {
		t.Errorf("recovered id = %s, want %s", active.ID, started.ID)
	}
	if got := len(active.TrackedExercises[0].TrackedSets); got != 2 {
		t.Errorf("recovered sets = %d, want 2", got)
	}
	if active.IsCompleted {
		t.Error("recovered session marked completed")
	}

	// Recovery must not block further logging.
	recovered.AppendSet(0, testSet(6, 105))
	if got := len(recovered.Active().TrackedExercises[0].TrackedSets); got != 3 {
		t.Errorf("sets after recovery append = %d, want 3", got)
	}
}

// TestRecoverClearsCompletedArtifact verifies a completed session left in
// the slot is treated as stale and discarded, not resumed.
func TestRecoverClearsCompletedArtifact(t *testing.T) {
	dir := t.TempDir()
	slot := openTestSlot(t, dir)

	w := models.NewTrackedWorkout(catalog.PushDay, "u1", time.Now())
	w.IsCompleted = true
	if err := slot.Save(w); err != nil {
		t.Fatalf("seeding slot: %v", err)
	}

	store := NewStore(slot, time.Hour, testLogger())
	defer store.Close()

	if store.Active() != nil {
		t.Error("completed artifact was adopted as active session")
	}
	saved, err := slot.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved != nil {
		t.Error("completed artifact not cleared from slot")
	}
}

// TestOutOfRangeIndicesAreNoOps verifies stale indices from a lagging UI
// neither panic nor corrupt the session.
func TestOutOfRangeIndicesAreNoOps(t *testing.T) {
	store := NewStore(openTestSlot(t, t.TempDir()), time.Hour, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.AppendSet(0, testSet(8, 100))
	before := store.Active()

	store.AppendSet(99, testSet(1, 1))
	store.AppendSet(-1, testSet(1, 1))
	store.UpdateSet(0, 5, 1, 1, models.Working)
	store.UpdateSet(42, 0, 1, 1, models.Working)
	store.RemoveSet(0, 7)
	store.RemoveSet(-2, 0)
	store.ReplaceExercise(99, models.TrackedExercise{})

	after := store.Active()
	if len(after.TrackedExercises) != len(before.TrackedExercises) {
		t.Fatal("exercise count changed by out-of-range mutation")
	}
	if got := len(after.TrackedExercises[0].TrackedSets); got != 1 {
		t.Errorf("sets = %d, want 1", got)
	}
	if !after.TrackedExercises[0].TrackedSets[0].Equal(before.TrackedExercises[0].TrackedSets[0]) {
		t.Error("set mutated by out-of-range mutation")
	}
}

// TestUpdateSetPreservesIdentity verifies an edit keeps the set's id.
func TestUpdateSetPreservesIdentity(t *testing.T) {
	store := NewStore(openTestSlot(t, t.TempDir()), time.Hour, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	set := testSet(8, 100)
	store.AppendSet(0, set)

	store.UpdateSet(0, 0, 10, 95, models.Warmup)

	got := store.Active().TrackedExercises[0].TrackedSets[0]
	if got.ID != set.ID {
		t.Errorf("id = %s, want %s", got.ID, set.ID)
	}
	if got.Reps != 10 || got.Weight != 95 || got.SetType != models.Warmup {
		t.Errorf("set = %+v, want reps 10, weight 95, warmup", got)
	}
}

// TestEndSessionFinalizesAndClearsSlot verifies the end-of-session
// contract: completion stamps, slot cleared, no active session left.
func TestEndSessionFinalizesAndClearsSlot(t *testing.T) {
	dir := t.TempDir()
	slot := openTestSlot(t, dir)
	store := NewStore(slot, time.Hour, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.AppendSet(0, testSet(8, 100))

	finalized := store.EndSession()
	if finalized == nil {
		t.Fatal("EndSession returned nil for active session")
	}
	if !finalized.IsCompleted {
		t.Error("finalized session not marked completed")
	}
	if finalized.EndTime == nil {
		t.Error("finalized session missing end time")
	}
	if finalized.DurationSec == nil || *finalized.DurationSec < 0 {
		t.Errorf("duration = %v, want non-negative", finalized.DurationSec)
	}

	if store.Active() != nil {
		t.Error("session still active after end")
	}
	saved, err := slot.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved != nil {
		t.Error("slot not cleared after end")
	}

	if store.EndSession() != nil {
		t.Error("EndSession with no active session should return nil")
	}
}

// TestActiveReturnsCopy verifies callers can't mutate the live session
// through the snapshot Active returns.
func TestActiveReturnsCopy(t *testing.T) {
	store := NewStore(openTestSlot(t, t.TempDir()), time.Hour, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.AppendSet(0, testSet(8, 100))

	snapshot := store.Active()
	snapshot.TrackedExercises[0].TrackedSets[0].Reps = 99

	if got := store.Active().TrackedExercises[0].TrackedSets[0].Reps; got != 8 {
		t.Errorf("reps = %d after snapshot mutation, want 8", got)
	}
}

// TestPeriodicSaverBackstop verifies the save ticker flushes state that
// bypassed the write-through path.
func TestPeriodicSaverBackstop(t *testing.T) {
	dir := t.TempDir()
	slot := openTestSlot(t, dir)
	store := NewStore(slot, 20*time.Millisecond, testLogger())
	defer store.Close()

	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Mutate behind the store's back: only the ticker can persist this.
	store.mu.Lock()
	ex := &store.active.TrackedExercises[0]
	ex.TrackedSets = append(ex.TrackedSets, testSet(8, 100))
	store.mu.Unlock()

	deadline := time.Now().Add(2 * time.Second)
	for {
		saved, err := slot.Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if saved != nil && len(saved.TrackedExercises[0].TrackedSets) == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("periodic save never flushed the mutation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestCorruptSlotDiscarded verifies unreadable slot data is dropped so
// the app starts clean instead of crashing.
func TestCorruptSlotDiscarded(t *testing.T) {
	dir := t.TempDir()
	slot := openTestSlot(t, dir)
	if _, err := slot.db.Exec(
		`INSERT OR REPLACE INTO active_session (id, data) VALUES (1, ?)`, []byte("{not json")); err != nil {
		t.Fatalf("seeding corrupt slot: %v", err)
	}

	store := NewStore(slot, time.Hour, testLogger())
	defer store.Close()

	if store.Active() != nil {
		t.Error("corrupt slot produced an active session")
	}
	if _, err := store.StartSession(catalog.PushDay, "u1"); err != nil {
		t.Errorf("start after corrupt slot: %v", err)
	}
}

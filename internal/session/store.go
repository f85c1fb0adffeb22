package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DefaultSaveInterval is the periodic-persistence backstop. Every
// mutation already writes through synchronously; the ticker only covers
// writes lost to a crash mid-mutation.
const DefaultSaveInterval = 10 * time.Second

// ErrSessionActive is returned by StartSession while another session is
// still in progress. Callers end or abandon the current session first.
var ErrSessionActive = errors.New("a workout session is already active")

// Store holds zero-or-one active session, mirrors every mutation to the
// durable slot, and recovers the session after a restart. All methods
// are safe for concurrent use; mutations apply in invocation order and
// each durable write reflects the full post-mutation state.
type Store struct {
	mu        sync.Mutex
	slot      *Slot
	log       *slog.Logger
	interval  time.Duration
	active    *models.TrackedWorkout
	stopSaver chan struct{}
	now       func() time.Time
}

// NewStore creates a Store backed by the given slot and immediately
// attempts recovery: a non-completed session in the slot is adopted, a
// completed one is treated as a stale artifact and cleared, and corrupt
// data is discarded.
func NewStore(slot *Slot, interval time.Duration, log *slog.Logger) *Store {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	s := &Store{
		slot:     slot,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
	s.recover()
	return s
}

func (s *Store) recover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.slot.Load()
	if err != nil {
		s.log.Warn("discarding corrupt session slot", "error", err)
		if cerr := s.slot.Clear(); cerr != nil {
			s.log.Warn("failed to clear session slot", "error", cerr)
		}
		return
	}
	if w == nil {
		return
	}
	if w.IsCompleted {
		// A completed session should never remain in this slot.
		s.log.Warn("found completed session in slot, clearing", "id", w.ID)
		if cerr := s.slot.Clear(); cerr != nil {
			s.log.Warn("failed to clear session slot", "error", cerr)
		}
		return
	}

	if w.StartTime == nil {
		start := s.now()
		w.StartTime = &start
	}
	s.active = w
	s.persistLocked()
	s.startSaverLocked()
	s.log.Info("recovered active session", "id", w.ID, "template", w.TemplateName)
}

// StartSession seeds a new session from the template, adopts it as the
// active session, persists immediately, and begins periodic persistence.
func (s *Store) StartSession(template models.Workout, userID string) (models.TrackedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return models.TrackedWorkout{}, ErrSessionActive
	}

	w := models.NewTrackedWorkout(template, userID, s.now())
	s.active = &w
	s.persistLocked()
	s.startSaverLocked()
	return w.Clone(), nil
}

// AppendSet appends a set to the exercise at exerciseIndex. Out-of-range
// indices are a no-op.
func (s *Store) AppendSet(exerciseIndex int, set models.TrackedSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || exerciseIndex < 0 || exerciseIndex >= len(s.active.TrackedExercises) {
		return
	}
	ex := &s.active.TrackedExercises[exerciseIndex]
	ex.TrackedSets = append(ex.TrackedSets, set)
	s.persistLocked()
}

// UpdateSet replaces the reps/weight/type of an existing set, preserving
// its id. Out-of-range indices are a no-op.
func (s *Store) UpdateSet(exerciseIndex, setIndex, reps int, weight float64, setType models.SetType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || exerciseIndex < 0 || exerciseIndex >= len(s.active.TrackedExercises) {
		return
	}
	ex := &s.active.TrackedExercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.TrackedSets) {
		return
	}
	set := &ex.TrackedSets[setIndex]
	set.Reps = reps
	set.Weight = weight
	set.SetType = setType
	s.persistLocked()
}

// RemoveSet removes the set at setIndex. Out-of-range indices are a no-op.
func (s *Store) RemoveSet(exerciseIndex, setIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || exerciseIndex < 0 || exerciseIndex >= len(s.active.TrackedExercises) {
		return
	}
	ex := &s.active.TrackedExercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.TrackedSets) {
		return
	}
	ex.TrackedSets = append(ex.TrackedSets[:setIndex], ex.TrackedSets[setIndex+1:]...)
	s.persistLocked()
}

// ReplaceExercise swaps in a wholesale-edited exercise at index, used
// when a sub-editor commits a batch of changes. Out-of-range is a no-op.
func (s *Store) ReplaceExercise(index int, exercise models.TrackedExercise) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || index < 0 || index >= len(s.active.TrackedExercises) {
		return
	}
	s.active.TrackedExercises[index] = exercise.Clone()
	s.persistLocked()
}

// EndSession finalizes the active session: marks it completed, stamps
// the end time and duration, stops periodic persistence, clears the
// durable slot, and returns the finalized session. Returns nil when no
// session is active. Ownership of the returned session transfers to the
// caller.
func (s *Store) EndSession() *models.TrackedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}

	now := s.now()
	s.active.IsCompleted = true
	s.active.EndTime = &now
	if s.active.StartTime != nil {
		dur := now.Sub(*s.active.StartTime).Seconds()
		s.active.DurationSec = &dur
	}

	s.stopSaverLocked()
	if err := s.slot.Clear(); err != nil {
		s.log.Warn("failed to clear session slot", "error", err)
	}

	finalized := s.active.Clone()
	s.active = nil
	return &finalized
}

// Abandon discards the active session without finalizing it. Explicit
// replacement for the old silent-overwrite-on-start behavior.
func (s *Store) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return
	}
	s.stopSaverLocked()
	if err := s.slot.Clear(); err != nil {
		s.log.Warn("failed to clear session slot", "error", err)
	}
	s.active = nil
}

// Active returns a deep copy of the current session, or nil.
func (s *Store) Active() *models.TrackedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	w := s.active.Clone()
	return &w
}

// Close stops the periodic saver. The slot itself is closed by whoever
// opened it.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSaverLocked()
}

// persistLocked writes the full current session to the slot. Failures
// are logged, not fatal: the in-memory session stays authoritative and
// the next mutation or tick retries.
func (s *Store) persistLocked() {
	if s.active == nil {
		return
	}
	if err := s.slot.Save(*s.active); err != nil {
		s.log.Warn("failed to persist session", "id", s.active.ID, "error", err)
	}
}

func (s *Store) startSaverLocked() {
	s.stopSaverLocked()
	stop := make(chan struct{})
	s.stopSaver = stop

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				s.persistLocked()
				s.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Store) stopSaverLocked() {
	if s.stopSaver != nil {
		close(s.stopSaver)
		s.stopSaver = nil
	}
}

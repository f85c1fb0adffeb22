// Package workout is the caller-facing surface of the tracking core. The
// Manager composes the session store, the history repository, and the
// sync client, and publishes derived state to subscribers.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/google/uuid"
)

// Syncer uploads one finalized session. A nil Syncer disables remote
// sync entirely.
type Syncer interface {
	SyncCompletedWorkout(ctx context.Context, w models.TrackedWorkout) error
}

// State is the derived, observable summary handed to subscribers. It is
// a read copy; all mutations go through the Manager.
type State struct {
	ActiveSession   *models.TrackedWorkout
	IsSessionActive bool
	RecentCompleted []models.TrackedWorkout
	Stats           history.AggregateStats
}

// Manager is the single entry point callers use. One instance per
// process, constructed at the composition root.
type Manager struct {
	store  *session.Store
	repo   *history.Repository
	syncer Syncer
	log    *slog.Logger
	userID string

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewManager wires the components together, adopts any session the
// store recovered, and loads the completed-workout summaries.
func NewManager(ctx context.Context, store *session.Store, repo *history.Repository, syncer Syncer, userID string, log *slog.Logger) (*Manager, error) {
	m := &Manager{
		store:  store,
		repo:   repo,
		syncer: syncer,
		log:    log,
		userID: userID,
		subs:   map[int]func(State){},
	}

	m.state.ActiveSession = store.Active()
	m.state.IsSessionActive = m.state.ActiveSession != nil

	if err := m.reloadCompletedLocked(ctx); err != nil {
		return nil, fmt.Errorf("loading workout history: %w", err)
	}
	return m, nil
}

// Subscribe registers a state observer. Observers are invoked
// synchronously, in registration order, after each state change. The
// returned function unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// CurrentState returns the latest derived state.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StartWorkout begins a session from a template.
func (m *Manager) StartWorkout(template models.Workout) (models.TrackedWorkout, error) {
	w, err := m.store.StartSession(template, m.userID)
	if err != nil {
		return models.TrackedWorkout{}, err
	}
	m.refreshActive()
	return w, nil
}

// AppendSet logs a set against the active session.
func (m *Manager) AppendSet(exerciseIndex int, set models.TrackedSet) {
	m.store.AppendSet(exerciseIndex, set)
	m.refreshActive()
}

// UpdateSet edits a logged set in place.
func (m *Manager) UpdateSet(exerciseIndex, setIndex, reps int, weight float64, setType models.SetType) {
	m.store.UpdateSet(exerciseIndex, setIndex, reps, weight, setType)
	m.refreshActive()
}

// RemoveSet removes a logged set.
func (m *Manager) RemoveSet(exerciseIndex, setIndex int) {
	m.store.RemoveSet(exerciseIndex, setIndex)
	m.refreshActive()
}

// UpdateExercise commits a sub-editor's batch of changes to one
// exercise slot.
func (m *Manager) UpdateExercise(index int, exercise models.TrackedExercise) {
	m.store.ReplaceExercise(index, exercise)
	m.refreshActive()
}

// AbandonWorkout discards the active session without saving it.
func (m *Manager) AbandonWorkout() {
	m.store.Abandon()
	m.refreshActive()
}

// EndWorkout finalizes the active session. The finalized session is
// written to the repository before active-session state is cleared, so
// observers never see "no active workout" ahead of durable storage.
// Remote sync runs afterwards, best-effort, against a snapshot.
func (m *Manager) EndWorkout(ctx context.Context) error {
	finalized := m.store.EndSession()
	if finalized == nil {
		return nil
	}

	insertErr := m.repo.Insert(ctx, *finalized)
	if insertErr != nil {
		m.log.Error("failed to store completed workout", "id", finalized.ID, "error", insertErr)
	}

	m.mu.Lock()
	m.state.ActiveSession = nil
	m.state.IsSessionActive = false
	if err := m.reloadCompletedLocked(ctx); err != nil {
		m.log.Warn("failed to reload workout history", "error", err)
	}
	m.mu.Unlock()
	m.notify()

	if insertErr != nil {
		return fmt.Errorf("storing completed workout: %w", insertErr)
	}

	if m.syncer != nil {
		snapshot := finalized.Clone()
		go func() {
			syncCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := m.syncer.SyncCompletedWorkout(syncCtx, snapshot); err != nil {
				// Local data is already durable; the session stays
				// eligible for a later SyncAllPending.
				m.log.Warn("workout sync failed", "id", snapshot.ID, "error", err)
			}
		}()
	}
	return nil
}

// DeleteCompletedWorkout removes a stored workout and refreshes the
// derived lists and stats.
func (m *Manager) DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	if err := m.reloadCompletedLocked(ctx); err != nil {
		m.log.Warn("failed to reload workout history", "error", err)
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

// ExerciseProgress returns the best-set progression for an exercise.
func (m *Manager) ExerciseProgress(ctx context.Context, exerciseName string) ([]history.ProgressPoint, error) {
	return m.repo.ExerciseProgress(ctx, exerciseName)
}

// VolumeByDay buckets completed sessions from the last windowDays by
// calendar day, summing volume.
func (m *Manager) VolumeByDay(windowDays int) []DayVolume {
	m.mu.Lock()
	workouts := m.state.RecentCompleted
	m.mu.Unlock()
	return VolumeByDay(workouts, windowDays, time.Now())
}

// TopExercisesByVolume ranks exercise names by total volume across all
// completed sessions.
func (m *Manager) TopExercisesByVolume(limit int) []ExerciseVolume {
	m.mu.Lock()
	workouts := m.state.RecentCompleted
	m.mu.Unlock()
	return TopExercisesByVolume(workouts, limit)
}

// Close stops the session store's periodic persistence.
func (m *Manager) Close() {
	m.store.Close()
}

// refreshActive re-derives active-session state from the store and
// notifies observers.
func (m *Manager) refreshActive() {
	active := m.store.Active()
	m.mu.Lock()
	m.state.ActiveSession = active
	m.state.IsSessionActive = active != nil
	m.mu.Unlock()
	m.notify()
}

// reloadCompletedLocked refreshes the completed list and aggregate
// stats from the repository. Caller holds m.mu.
func (m *Manager) reloadCompletedLocked(ctx context.Context) error {
	all, err := m.repo.FetchAll(ctx, m.userID)
	if err != nil {
		return err
	}
	completed := all[:0:0]
	for _, w := range all {
		if w.IsCompleted {
			completed = append(completed, w)
		}
	}
	m.state.RecentCompleted = completed

	stats, err := m.repo.AggregateStats(ctx, m.userID, true)
	if err != nil {
		return err
	}
	m.state.Stats = *stats
	return nil
}

// notify pushes the current state to every subscriber. Runs outside the
// state lock so observers can call back into the Manager.
func (m *Manager) notify() {
	m.mu.Lock()
	state := m.state
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

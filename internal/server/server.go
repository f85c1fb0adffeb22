// Package server exposes the sync backend over HTTP: one ingest route
// clients POST finalized sessions to, plus read-only query routes.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// SyncStore is the storage surface the handlers need.
type SyncStore interface {
	SaveSyncedWorkouts(ctx context.Context, deviceID string, workouts []models.WorkoutSyncData) (*storage.SaveResult, error)
	QueryWorkouts(ctx context.Context, start, end time.Time, userID string) ([]storage.SyncedWorkout, error)
	GetDataStats(ctx context.Context, userID string) (*storage.DataStats, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        SyncStore
	log       *slog.Logger
	syncToken string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db SyncStore, syncToken string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		log:       log,
		syncToken: syncToken,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Sync ingest (bearer token required)
	s.router.Route("/api/sync", func(r chi.Router) {
		r.Use(BearerAuth(s.syncToken))
		r.Post("/", s.handleSync)
	})

	// Query endpoints (no auth, tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/stats", s.handleStats)
}

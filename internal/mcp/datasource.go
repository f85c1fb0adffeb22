package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
)

// DataSource abstracts the workout history for MCP tools.
// *history.Repository satisfies this interface.
type DataSource interface {
	FetchAll(ctx context.Context, userID string) ([]models.TrackedWorkout, error)
	AggregateStats(ctx context.Context, userID string, completedOnly bool) (*history.AggregateStats, error)
	ExerciseProgress(ctx context.Context, exerciseName string) ([]history.ProgressPoint, error)
}

// Compile-time check: *history.Repository satisfies DataSource.
var _ DataSource = (*history.Repository)(nil)

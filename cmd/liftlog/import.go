package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
)

// importStats tracks import progress.
type importStats struct {
	Total    int
	Imported int
	Skipped  int
}

// importWorkouts reads a JSON export (an array of tracked workouts) and
// inserts them into the local history. Workouts already stored are
// skipped by id, so re-running an import is safe.
func importWorkouts(ctx context.Context, repo *history.Repository, path string, dryRun bool, log *slog.Logger) (*importStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	var workouts []models.TrackedWorkout
	if err := json.Unmarshal(data, &workouts); err != nil {
		return nil, fmt.Errorf("parsing export file: %w", err)
	}

	stats := &importStats{Total: len(workouts)}
	for _, w := range workouts {
		exists, err := repo.Exists(ctx, w.ID)
		if err != nil {
			return stats, fmt.Errorf("checking workout %s: %w", w.ID, err)
		}
		if exists {
			stats.Skipped++
			continue
		}

		if dryRun {
			log.Info("would import workout", "id", w.ID, "template", w.TemplateName)
			stats.Imported++
			continue
		}

		if err := repo.Insert(ctx, w); err != nil {
			return stats, fmt.Errorf("importing workout %s: %w", w.ID, err)
		}
		stats.Imported++
	}
	return stats, nil
}

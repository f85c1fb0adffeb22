package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetRecentWorkouts = mcp.NewTool("get_recent_workouts",
	mcp.WithDescription("Retrieve completed workouts, newest first. Each workout includes its exercises and every logged set (reps, weight, set type)."),
	mcp.WithNumber("days", mcp.Description("How many days back to include. Defaults to 30.")),
	mcp.WithString("user", mcp.Description("Filter by user ID. Defaults to all users.")),
)

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Aggregate statistics over completed workouts: total workouts, sets, reps, volume (reps x weight), and a per-template breakdown."),
	mcp.WithString("user", mcp.Description("Filter by user ID. Defaults to all users.")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Per-session best working set for one exercise, oldest first. Useful for charting strength progression."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (exact match, e.g. 'Barbell Bench Press')")),
)

var toolGetVolumeByDay = mcp.NewTool("get_volume_by_day",
	mcp.WithDescription("Total volume lifted per calendar day over a trailing window. Days with no workouts are omitted."),
	mcp.WithNumber("days", mcp.Description("Window size in days. Defaults to 7.")),
	mcp.WithString("user", mcp.Description("Filter by user ID. Defaults to all users.")),
)

var toolGetTopExercises = mcp.NewTool("get_top_exercises",
	mcp.WithDescription("Exercises ranked by total volume across all completed workouts."),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return. Defaults to 5.")),
	mcp.WithString("user", mcp.Description("Filter by user ID. Defaults to all users.")),
)

// --- Tool handlers ---

func (h *handlers) getRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 30)

	workouts, err := h.completedWorkouts(ctx, req.GetString("user", ""))
	if err != nil {
		h.log.Error("mcp get_recent_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	recent := workouts[:0:0]
	for _, w := range workouts {
		if !w.Date.Before(cutoff) {
			recent = append(recent, w)
		}
	}

	result, err := mcp.NewToolResultJSON(recent)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.AggregateStats(ctx, req.GetString("user", ""), true)
	if err != nil {
		h.log.Error("mcp get_workout_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	points, err := h.ds.ExerciseProgress(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeByDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)

	workouts, err := h.completedWorkouts(ctx, req.GetString("user", ""))
	if err != nil {
		h.log.Error("mcp get_volume_by_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout.VolumeByDay(workouts, days, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTopExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 5)

	workouts, err := h.completedWorkouts(ctx, req.GetString("user", ""))
	if err != nil {
		h.log.Error("mcp get_top_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout.TopExercisesByVolume(workouts, limit))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// completedWorkouts loads the history and drops anything not finished.
func (h *handlers) completedWorkouts(ctx context.Context, userID string) ([]models.TrackedWorkout, error) {
	all, err := h.ds.FetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := all[:0:0]
	for _, w := range all {
		if w.IsCompleted {
			completed = append(completed, w)
		}
	}
	return completed, nil
}

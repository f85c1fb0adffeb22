package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var payload models.SyncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SyncResponse{Message: "invalid JSON: " + err.Error()})
		return
	}
	if payload.DeviceID == "" {
		writeJSON(w, http.StatusBadRequest, models.SyncResponse{Message: "deviceId required"})
		return
	}

	result, err := s.db.SaveSyncedWorkouts(r.Context(), payload.DeviceID, payload.Workouts)
	if err != nil {
		s.log.Error("sync error", "device", payload.DeviceID, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.SyncResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.SyncResponse{
		Success: true,
		Message: "sync complete",
		Data: &models.SyncResponseData{
			SyncedAt: result.SyncedAt.Format(time.RFC3339),
			Stats: &models.SyncStats{
				Uploaded:  result.Uploaded,
				Conflicts: result.Conflicts,
			},
		},
	})
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	userID := r.URL.Query().Get("user")
	workouts, err := s.db.QueryWorkouts(r.Context(), start, end, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}

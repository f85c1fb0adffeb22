package models

// Sync transfer shapes for the POST /api/sync endpoint. Client-generated
// ids travel as correlation keys; every timestamp is RFC 3339 text.

// SyncPayload is the request body.
type SyncPayload struct {
	DeviceID          string            `json:"deviceId"`
	DeviceInfo        *DeviceInfo       `json:"deviceInfo,omitempty"`
	LastSyncTimestamp string            `json:"lastSyncTimestamp,omitempty"`
	Workouts          []WorkoutSyncData `json:"workouts"`
}

// DeviceInfo describes the uploading device. The device's personal name
// is deliberately never sent.
type DeviceInfo struct {
	Type       string `json:"type"`
	AppVersion string `json:"appVersion"`
	OSVersion  string `json:"osVersion,omitempty"`
}

// WorkoutSyncData is a finalized session in flat transfer form.
type WorkoutSyncData struct {
	ClientID        string             `json:"clientId"`
	UserID          string             `json:"userId"`
	Date            string             `json:"date"`
	Name            string             `json:"name,omitempty"`
	DurationSeconds *int               `json:"durationSeconds,omitempty"`
	IsCompleted     bool               `json:"isCompleted"`
	StartTime       string             `json:"startTime,omitempty"`
	EndTime         string             `json:"endTime,omitempty"`
	TemplateName    string             `json:"templateName,omitempty"`
	Exercises       []ExerciseSyncData `json:"exercises"`
	UpdatedAt       string             `json:"updatedAt"`
}

// ExerciseSyncData is one exercise within a synced workout.
type ExerciseSyncData struct {
	ClientID     string        `json:"clientId"`
	ExerciseName string        `json:"exerciseName"`
	MuscleGroups []string      `json:"muscleGroups"`
	Sets         []SetSyncData `json:"sets"`
	UpdatedAt    string        `json:"updatedAt"`
}

// SetSyncData is one set within a synced exercise.
type SetSyncData struct {
	ClientID                 string   `json:"clientId"`
	Reps                     int      `json:"reps"`
	Weight                   float64  `json:"weight"`
	SetType                  string   `json:"setType"`
	ExerciseTypeName         string   `json:"exerciseTypeName"`
	ExerciseTypeMuscleGroups []string `json:"exerciseTypeMuscleGroups"`
	UpdatedAt                string   `json:"updatedAt"`
}

// SyncResponse is the server's reply.
type SyncResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    *SyncResponseData `json:"data,omitempty"`
}

// SyncResponseData carries server-side sync bookkeeping.
type SyncResponseData struct {
	SyncedAt   string         `json:"syncedAt"`
	Conflicts  []ConflictData `json:"conflicts,omitempty"`
	ServerData *ServerData    `json:"serverData,omitempty"`
	Stats      *SyncStats     `json:"stats,omitempty"`
}

// ConflictData reports a server-resolved conflict. The resolution policy
// is server-defined and opaque to the client.
type ConflictData struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Resolution string `json:"resolution"`
}

// ServerData is workout state pushed back by the server.
type ServerData struct {
	Workouts       []WorkoutSyncData `json:"workouts"`
	LastServerSync string            `json:"lastServerSync"`
}

// SyncStats summarizes one sync exchange.
type SyncStats struct {
	Uploaded   int `json:"uploaded"`
	Downloaded int `json:"downloaded"`
	Conflicts  int `json:"conflicts"`
}

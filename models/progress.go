package models

import "time"

// TaskProgress is one task's contribution to a project's progress.
type TaskProgress struct {
	TaskID         int64  `json:"taskId"`
	Status         Status `json:"status"`
	TotalUnits     int    `json:"totalUnits"`
	CompletedUnits int    `json:"completedUnits"`
	// Degraded is set when the task's subtasks could not be fetched and
	// the task was counted as a single unit.
	Degraded bool `json:"degraded,omitempty"`
}

type ProgressReport struct {
	ProjectID       int64          `json:"projectId"`
	TotalUnits      int            `json:"totalUnits"`
	CompletedUnits  int            `json:"completedUnits"`
	Percent         int            `json:"percent"`
	Tasks           []TaskProgress `json:"tasks"`
	DegradedTaskIDs []int64        `json:"degradedTaskIds"`
	ComputedAt      time.Time      `json:"computedAt"`
}

// ProgressSnapshot is what the synchronizer currently holds for a project.
type ProgressSnapshot struct {
	ProjectID   int64     `json:"projectId"`
	Held        int       `json:"held"`
	HasHeld     bool      `json:"hasHeld"`
	LastRemote  *float64  `json:"lastRemote"`
	LastPushErr string    `json:"lastPushError,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectProgress is the body of GET /api/projects/{id}/progress.
type ProjectProgress struct {
	Snapshot ProgressSnapshot `json:"snapshot"`
	Report   ProgressReport   `json:"report"`
}

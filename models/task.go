package models

import (
	"encoding/json"
	"fmt"
)

type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	StartDate   *Date
	EndDate     *Date
	UpdatedAt   *Date
	ProjectID   int64
	CreatedBy   *Employee

	// Assignment is classified once when the record is decoded.
	Assignment AssignmentSource
	// LegacyAssignedTo keeps the raw assignedTo objects for the legacy visibility rule,
	// independent of which tier won classification.
	LegacyAssignedTo []Employee
}

type projectRef struct {
	ID int64 `json:"id"`
}

type taskWire struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Status            Status          `json:"status"`
	Priority          Priority        `json:"priority,omitempty"`
	StartDate         *Date           `json:"startDate,omitempty"`
	EndDate           *Date           `json:"endDate,omitempty"`
	UpdatedAt         *Date           `json:"updatedAt,omitempty"`
	Project           *projectRef     `json:"project,omitempty"`
	ProjectID         *int64          `json:"projectId,omitempty"`
	CreatedBy         *Employee       `json:"createdBy,omitempty"`
	AssignedEmployees []Employee      `json:"assignedEmployees,omitempty"`
	AssignedToIDs     idList          `json:"assignedToIds,omitempty"`
	AssignedTo        json.RawMessage `json:"assignedTo,omitempty"`
	AssignedToID      *flexibleID     `json:"assignedToId,omitempty"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var wire taskWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("task: %w", err)
	}

	legacy := decodeEmbedded(wire.AssignedTo)
	shape := AssignmentShape{
		AssignedEmployees: wire.AssignedEmployees,
		AssignedToIDs:     wire.AssignedToIDs,
		AssignedTo:        legacy,
	}
	if wire.AssignedToID != nil && wire.AssignedToID.set {
		id := wire.AssignedToID.value
		shape.AssignedToID = &id
	}

	*t = Task{
		ID:               wire.ID,
		Title:            wire.Title,
		Description:      wire.Description,
		Status:           wire.Status,
		Priority:         wire.Priority,
		StartDate:        wire.StartDate,
		EndDate:          wire.EndDate,
		UpdatedAt:        wire.UpdatedAt,
		CreatedBy:        wire.CreatedBy,
		Assignment:       ClassifyAssignment(shape),
		LegacyAssignedTo: legacy,
	}
	switch {
	case wire.ProjectID != nil:
		t.ProjectID = *wire.ProjectID
	case wire.Project != nil:
		t.ProjectID = wire.Project.ID
	}
	return nil
}

// MarshalJSON writes the assignment back in the representation it was read from.
func (t Task) MarshalJSON() ([]byte, error) {
	wire := taskWire{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		UpdatedAt:   t.UpdatedAt,
		CreatedBy:   t.CreatedBy,
	}
	if t.ProjectID != 0 {
		id := t.ProjectID
		wire.ProjectID = &id
	}

	switch t.Assignment.Kind {
	case AssignmentEmbedded:
		wire.AssignedEmployees = t.Assignment.Employees
	case AssignmentByIDList:
		wire.AssignedToIDs = t.Assignment.IDs
	case AssignmentSingleID:
		if len(t.Assignment.IDs) > 0 {
			wire.AssignedToID = &flexibleID{value: t.Assignment.IDs[0], set: true}
		}
	}
	if len(t.LegacyAssignedTo) > 0 {
		raw, err := json.Marshal(t.LegacyAssignedTo)
		if err != nil {
			return nil, fmt.Errorf("task assignedTo: %w", err)
		}
		wire.AssignedTo = raw
	}
	return json.Marshal(wire)
}

func (f flexibleID) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// TaskView is a task as served to the UI: assignment resolved to full employees.
type TaskView struct {
	Task
	AssignedEmployees []Employee `json:"assignedEmployees"`
}

func (v TaskView) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(v.Task)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	assignees := v.AssignedEmployees
	if assignees == nil {
		assignees = []Employee{}
	}
	raw, err := json.Marshal(assignees)
	if err != nil {
		return nil, err
	}
	fields["assignedEmployees"] = raw
	delete(fields, "assignedToIds")
	delete(fields, "assignedToId")
	return json.Marshal(fields)
}

// TaskUpdate is the partial body sent on PUT /tasks/{id}.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	StartDate   *Date     `json:"startDate,omitempty"`
	EndDate     *Date     `json:"endDate,omitempty"`
}

// IsStatusOnly reports whether the update touches nothing but status.
func (u TaskUpdate) IsStatusOnly() bool {
	return u.Status != nil && u.Title == nil && u.Description == nil &&
		u.Priority == nil && u.StartDate == nil && u.EndDate == nil
}

// TaskInput is the create form body.
type TaskInput struct {
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	Status              Status   `json:"status,omitempty"`
	Priority            Priority `json:"priority,omitempty"`
	StartDate           *Date    `json:"startDate,omitempty"`
	EndDate             *Date    `json:"endDate,omitempty"`
	ProjectID           int64    `json:"projectId"`
	AssignedEmployeeIDs []int64  `json:"assignedEmployeeIds,omitempty"`
}

package models

import (
	"encoding/json"
	"fmt"
)

type Subtask struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	TaskID      int64     `json:"taskId,omitempty"`
	AssignedTo  *Employee `json:"assignedTo,omitempty"`
	StartDate   *Date     `json:"startDate,omitempty"`
	EndDate     *Date     `json:"endDate,omitempty"`
	UpdatedAt   *Date     `json:"updatedAt,omitempty"`
}

func (s *Subtask) UnmarshalJSON(data []byte) error {
	type plain Subtask
	var wire struct {
		plain
		Task *projectRef `json:"task,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("subtask: %w", err)
	}
	*s = Subtask(wire.plain)
	if s.TaskID == 0 && wire.Task != nil {
		s.TaskID = wire.Task.ID
	}
	return nil
}

// IsDone reports whether the subtask counts as a completed unit. Only DONE qualifies.
func (s Subtask) IsDone() bool {
	return s.Status.Normalize() == StatusDone
}

// SubtaskInput is the create/update body for a subtask.
type SubtaskInput struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Status       Status `json:"status,omitempty"`
	TaskID       int64  `json:"taskId"`
	AssignedToID *int64 `json:"assignedToId,omitempty"`
	StartDate    *Date  `json:"startDate,omitempty"`
	EndDate      *Date  `json:"endDate,omitempty"`
}

// ToSubtask builds the collaborator payload.
func (in SubtaskInput) ToSubtask() Subtask {
	s := Subtask{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		TaskID:      in.TaskID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if s.Status == "" {
		s.Status = StatusTodo
	}
	if in.AssignedToID != nil {
		s.AssignedTo = &Employee{ID: *in.AssignedToID}
	}
	return s
}

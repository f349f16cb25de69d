package models

import "strings"

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOverdue    Status = "OVERDUE"
)

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityUrgent   Priority = "URGENT"
	PriorityCritical Priority = "CRITICAL"
)

// Normalize upper-cases the status so lower-case legacy values compare equal.
func (s Status) Normalize() Status {
	return Status(strings.ToUpper(strings.TrimSpace(string(s))))
}

// IsCompleted treats DONE and COMPLETED as synonyms.
func (s Status) IsCompleted() bool {
	n := s.Normalize()
	return n == StatusDone || n == StatusCompleted
}

// IsActive reports TODO and IN_PROGRESS.
func (s Status) IsActive() bool {
	n := s.Normalize()
	return n == StatusTodo || n == StatusInProgress
}

// ForCollaborator maps COMPLETED onto DONE, the only completed status the collaborator stores.
func (s Status) ForCollaborator() Status {
	if s.Normalize() == StatusCompleted {
		return StatusDone
	}
	return s.Normalize()
}

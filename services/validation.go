package services

import (
	"strings"
	"unicode/utf8"

	"projecthub/microservices/progress-service/models"
)

const maxTitleLength = 200

// ValidateProject checks the project form. managerRequired is set when
// manager candidates exist.
func ValidateProject(in models.ProjectInput, managerRequired bool) error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.add("description", "description is required")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		errs.add("startDate", "start date is required")
	}
	if in.EndDate == nil || in.EndDate.IsZero() {
		errs.add("endDate", "end date is required")
	}
	if in.StartDate != nil && in.EndDate != nil && !in.StartDate.IsZero() && !in.EndDate.IsZero() &&
		!in.EndDate.After(in.StartDate.Time) {
		errs.add("endDate", "end date must be after start date")
	}

	hasEmployee, hasTeam := in.EmployeeID != nil, in.TeamID != nil
	switch {
	case hasEmployee && hasTeam:
		errs.add("assignment", "assign the project to an employee or a team, not both")
	case !hasEmployee && !hasTeam:
		errs.add("assignment", "assign the project to an employee or a team")
	}
	if managerRequired && in.ManagerID == nil {
		errs.add("managerId", "a manager is required")
	}
	return errs.err()
}

func ValidateTaskUpdate(update models.TaskUpdate) error {
	errs := fieldErrors{}
	if update.Title != nil {
		validateTitle(errs, "title", *update.Title)
	}
	if update.Status != nil && !knownStatus(*update.Status) {
		errs.add("status", "unknown status")
	}
	if update.StartDate != nil && update.EndDate != nil && update.EndDate.Before(update.StartDate.Time) {
		errs.add("endDate", "end date cannot be before start date")
	}
	return errs.err()
}

func ValidateSubtask(in models.SubtaskInput) error {
	errs := fieldErrors{}
	validateTitle(errs, "name", in.Name)
	if in.TaskID == 0 {
		errs.add("taskId", "parent task is required")
	}
	if in.Status != "" && !knownSubtaskStatus(in.Status) {
		errs.add("status", "subtask status must be TODO or DONE")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(in.StartDate.Time) {
		errs.add("endDate", "end date cannot be before start date")
	}
	return errs.err()
}

func validateTitle(errs fieldErrors, field, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs.add(field, field+" is required")
		return
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		errs.add(field, field+" must be at most 200 characters")
	}
}

func knownStatus(s models.Status) bool {
	switch s.Normalize() {
	case models.StatusTodo, models.StatusInProgress, models.StatusDone,
		models.StatusCompleted, models.StatusCancelled, models.StatusOverdue:
		return true
	}
	return false
}

// knownSubtaskStatus accepts TODO and DONE. COMPLETED is written as DONE.
func knownSubtaskStatus(s models.Status) bool {
	switch s.Normalize() {
	case models.StatusTodo, models.StatusDone, models.StatusCompleted:
		return true
	}
	return false
}

func ValidateTask(in models.TaskInput) error {
	errs := fieldErrors{}
	validateTitle(errs, "title", in.Title)
	if in.ProjectID == 0 {
		errs.add("projectId", "project is required")
	}
	if in.Status != "" && !knownStatus(in.Status) {
		errs.add("status", "unknown status")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(in.StartDate.Time) {
		errs.add("endDate", "end date cannot be before start date")
	}
	return errs.err()
}

package interfaces

import (
	"context"

	"projecthub/microservices/progress-service/models"
)

// Query is a read returning a typed result.
type Query[T any] interface {
	Execute(ctx context.Context) (T, error)
}

// ProgressCommandContext is the collaborator surface mutation commands write through.
type ProgressCommandContext interface {
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, project models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput, createdBy int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	GetSubtask(ctx context.Context, id int64) (models.Subtask, error)
	ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error)
	CreateSubtask(ctx context.Context, subtask models.Subtask) (models.Subtask, error)
	UpdateSubtask(ctx context.Context, id int64, subtask models.Subtask) (models.Subtask, error)
	DeleteSubtask(ctx context.Context, id int64) error

	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetTeam(ctx context.Context, id int64) (models.Team, error)
	GetTeamMember(ctx context.Context, id int64) (models.TeamMember, error)
}

// ProgressQueryContext is the collaborator surface the read side needs.
type ProgressQueryContext interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	ListSubtasks(ctx context.Context, taskID int64) ([]models.Subtask, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error)
}

// ProgressTrigger schedules a debounced progress recompute.
type ProgressTrigger interface {
	Trigger(ctx context.Context, projectID int64, reason string)
}

// ActivityStore persists synchronizer activity.
type ActivityStore interface {
	Record(ctx context.Context, activity models.ProgressActivity) error
	ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProgressActivity, error)
}

package queries

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

// ListTasksQuery returns visible tasks with resolved assignees. A zero
// ProjectID lists every task.
type ListTasksQuery struct {
	Identity  *models.Identity
	ProjectID int64
	Deps      *Dependencies
}

func (q *ListTasksQuery) Execute(ctx context.Context) ([]models.TaskView, error) {
	if q.Identity == nil {
		return nil, services.ErrUnauthenticated
	}
	var (
		tasks []models.Task
		err   error
	)
	if q.ProjectID != 0 {
		tasks, err = q.Deps.Svc.ListTasksByProject(ctx, q.ProjectID)
	} else {
		tasks, err = q.Deps.Svc.ListTasks(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	directory, err := q.Deps.directory(ctx)
	if err != nil {
		return nil, err
	}
	visible, err := q.Deps.Visibility.Tasks(q.Identity, tasks, directory)
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskView, 0, len(visible))
	for _, t := range visible {
		views = append(views, models.TaskView{Task: t, AssignedEmployees: services.ResolveAssignees(t, directory)})
	}
	return views, nil
}

// TaskAssigneesQuery returns a visible task's resolved assignee set.
type TaskAssigneesQuery struct {
	Identity *models.Identity
	TaskID   int64
	Deps     *Dependencies
}

func (q *TaskAssigneesQuery) Execute(ctx context.Context) ([]models.Employee, error) {
	task, directory, err := visibleTask(ctx, q.Deps, q.Identity, q.TaskID)
	if err != nil {
		return nil, err
	}
	return services.ResolveAssignees(task, directory), nil
}

// SubtaskCandidatesQuery returns who a new subtask of TaskID may be assigned to.
type SubtaskCandidatesQuery struct {
	Identity *models.Identity
	TaskID   int64
	Deps     *Dependencies
}

func (q *SubtaskCandidatesQuery) Execute(ctx context.Context) ([]models.Employee, error) {
	task, directory, err := visibleTask(ctx, q.Deps, q.Identity, q.TaskID)
	if err != nil {
		return nil, err
	}
	return services.SubtaskAssigneeCandidates(task, directory), nil
}

// ListSubtasksQuery returns the subtasks of a visible task.
type ListSubtasksQuery struct {
	Identity *models.Identity
	TaskID   int64
	Deps     *Dependencies
}

func (q *ListSubtasksQuery) Execute(ctx context.Context) ([]models.Subtask, error) {
	if _, _, err := visibleTask(ctx, q.Deps, q.Identity, q.TaskID); err != nil {
		return nil, err
	}
	subtasks, err := q.Deps.Svc.ListSubtasks(ctx, q.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks of task %d: %w", q.TaskID, err)
	}
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}
	return subtasks, nil
}

// NextRevisionQuery returns the revision number the next upload of FileName should get.
type NextRevisionQuery struct {
	Identity *models.Identity
	TaskID   int64
	FileName string
	Deps     *Dependencies
}

func (q *NextRevisionQuery) Execute(ctx context.Context) (float64, error) {
	if _, _, err := visibleTask(ctx, q.Deps, q.Identity, q.TaskID); err != nil {
		return 0, err
	}
	attachments, err := q.Deps.Svc.ListAttachments(ctx, q.TaskID)
	if err != nil {
		return 0, fmt.Errorf("failed to list attachments of task %d: %w", q.TaskID, err)
	}
	return models.NextRevision(attachments, q.TaskID, q.FileName), nil
}

func visibleTask(ctx context.Context, deps *Dependencies, identity *models.Identity, taskID int64) (models.Task, *services.EmployeeDirectory, error) {
	if identity == nil {
		return models.Task{}, nil, services.ErrUnauthenticated
	}
	task, err := deps.Svc.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, nil, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	directory, err := deps.directory(ctx)
	if err != nil {
		return models.Task{}, nil, err
	}
	ok, err := deps.Visibility.CanSeeTask(identity, task, directory)
	if err != nil {
		return models.Task{}, nil, err
	}
	if !ok {
		return models.Task{}, nil, fmt.Errorf("%w: task %d", services.ErrForbidden, taskID)
	}
	return task, directory, nil
}

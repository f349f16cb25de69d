package commands

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

type CreateTaskCommand struct {
	Identity *models.Identity
	Input    models.TaskInput
}

type CreateTaskHandler struct {
	Deps *Dependencies
}

func NewCreateTaskHandler(deps *Dependencies) *CreateTaskHandler {
	return &CreateTaskHandler{Deps: deps}
}

func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (models.Task, error) {
	if err := h.Deps.Permissions.CanCreateTask(cmd.Identity); err != nil {
		return models.Task{}, err
	}
	if err := services.ValidateTask(cmd.Input); err != nil {
		return models.Task{}, err
	}

	created, err := h.Deps.Svc.CreateTask(ctx, cmd.Input, cmd.Identity.EmployeeID)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	if created.ProjectID == 0 {
		created.ProjectID = cmd.Input.ProjectID
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d created in project %d by employee %d", created.ID, created.ProjectID, cmd.Identity.EmployeeID)
	h.Deps.Progress.Trigger(ctx, created.ProjectID, services.TriggerTaskCreated)
	return created, nil
}

type UpdateTaskCommand struct {
	Identity *models.Identity
	TaskID   int64
	Update   models.TaskUpdate
}

// ChangeTaskStatusCommand is the status-only form of UpdateTaskCommand.
type ChangeTaskStatusCommand struct {
	Identity *models.Identity
	TaskID   int64
	Status   models.Status
}

type UpdateTaskHandler struct {
	Deps *Dependencies
}

func NewUpdateTaskHandler(deps *Dependencies) *UpdateTaskHandler {
	return &UpdateTaskHandler{Deps: deps}
}

func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (models.Task, error) {
	if cmd.Identity == nil {
		return models.Task{}, services.ErrUnauthenticated
	}
	if err := services.ValidateTaskUpdate(cmd.Update); err != nil {
		return models.Task{}, err
	}

	task, err := h.Deps.Svc.GetTask(ctx, cmd.TaskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load task %d: %w", cmd.TaskID, err)
	}
	directory, err := h.Deps.directory(ctx)
	if err != nil {
		return models.Task{}, err
	}
	if err := h.Deps.Permissions.CanEditTask(cmd.Identity, task, directory); err != nil {
		return models.Task{}, err
	}

	update := cmd.Update
	if update.Status != nil {
		status := update.Status.ForCollaborator()
		update.Status = &status
	}

	updated, err := h.Deps.Svc.UpdateTask(ctx, cmd.TaskID, update)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task %d: %w", cmd.TaskID, err)
	}
	if updated.ProjectID == 0 {
		updated.ProjectID = task.ProjectID
	}

	if update.Status != nil {
		logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %d status set to %s", cmd.TaskID, *update.Status)
		h.Deps.Progress.Trigger(ctx, updated.ProjectID, services.TriggerTaskStatus)
	} else {
		logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %d updated", cmd.TaskID)
	}
	return updated, nil
}

func (h *UpdateTaskHandler) HandleStatus(ctx context.Context, cmd ChangeTaskStatusCommand) (models.Task, error) {
	status := cmd.Status
	return h.Handle(ctx, UpdateTaskCommand{
		Identity: cmd.Identity,
		TaskID:   cmd.TaskID,
		Update:   models.TaskUpdate{Status: &status},
	})
}

type DeleteTaskCommand struct {
	Identity *models.Identity
	TaskID   int64
}

type DeleteTaskHandler struct {
	Deps *Dependencies
}

func NewDeleteTaskHandler(deps *Dependencies) *DeleteTaskHandler {
	return &DeleteTaskHandler{Deps: deps}
}

func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	if cmd.Identity == nil {
		return services.ErrUnauthenticated
	}
	task, err := h.Deps.Svc.GetTask(ctx, cmd.TaskID)
	if err != nil {
		return fmt.Errorf("failed to load task %d: %w", cmd.TaskID, err)
	}
	if err := h.Deps.Permissions.CanDeleteTask(cmd.Identity, task); err != nil {
		return err
	}
	if err := h.Deps.Svc.DeleteTask(ctx, cmd.TaskID); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", cmd.TaskID, err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted by employee %d", cmd.TaskID, cmd.Identity.EmployeeID)
	h.Deps.Progress.Trigger(ctx, task.ProjectID, services.TriggerTaskDeleted)
	return nil
}

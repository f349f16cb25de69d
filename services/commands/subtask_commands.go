package commands

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

type CreateSubtaskCommand struct {
	Identity *models.Identity
	Input    models.SubtaskInput
}

type UpdateSubtaskCommand struct {
	Identity  *models.Identity
	SubtaskID int64
	Input     models.SubtaskInput
}

type DeleteSubtaskCommand struct {
	Identity  *models.Identity
	SubtaskID int64
}

// SubtaskHandler runs subtask mutations. Each one is authorised against the
// parent task, triggers a progress recompute and completes the parent when
// every subtask is DONE.
type SubtaskHandler struct {
	Deps *Dependencies
}

func NewSubtaskHandler(deps *Dependencies) *SubtaskHandler {
	return &SubtaskHandler{Deps: deps}
}

func (h *SubtaskHandler) authorizeParent(ctx context.Context, identity *models.Identity, taskID int64) (models.Task, *services.EmployeeDirectory, error) {
	if identity == nil {
		return models.Task{}, nil, services.ErrUnauthenticated
	}
	parent, err := h.Deps.Svc.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, nil, fmt.Errorf("failed to load parent task %d: %w", taskID, err)
	}
	directory, err := h.Deps.directory(ctx)
	if err != nil {
		return models.Task{}, nil, err
	}
	if err := h.Deps.Permissions.CanEditTask(identity, parent, directory); err != nil {
		return models.Task{}, nil, err
	}
	return parent, directory, nil
}

func (h *SubtaskHandler) Create(ctx context.Context, cmd CreateSubtaskCommand) (models.Subtask, error) {
	if cmd.Identity == nil {
		return models.Subtask{}, services.ErrUnauthenticated
	}
	if err := services.ValidateSubtask(cmd.Input); err != nil {
		return models.Subtask{}, err
	}
	parent, directory, err := h.authorizeParent(ctx, cmd.Identity, cmd.Input.TaskID)
	if err != nil {
		return models.Subtask{}, err
	}
	if cmd.Input.AssignedToID != nil {
		services.CheckSubtaskAssignee(parent, directory, *cmd.Input.AssignedToID)
	}

	created, err := h.Deps.Svc.CreateSubtask(ctx, cmd.Input.ToSubtask())
	if err != nil {
		return models.Subtask{}, fmt.Errorf("failed to create subtask: %w", err)
	}
	logging.Logger.Infof("Event ID: SUBTASK_CREATED, Description: Subtask %d created under task %d", created.ID, parent.ID)

	h.afterChange(ctx, parent, services.TriggerSubtaskCreated)
	return created, nil
}

func (h *SubtaskHandler) Update(ctx context.Context, cmd UpdateSubtaskCommand) (models.Subtask, error) {
	if cmd.Identity == nil {
		return models.Subtask{}, services.ErrUnauthenticated
	}
	existing, err := h.Deps.Svc.GetSubtask(ctx, cmd.SubtaskID)
	if err != nil {
		return models.Subtask{}, fmt.Errorf("failed to load subtask %d: %w", cmd.SubtaskID, err)
	}
	input := cmd.Input
	if input.Name == "" {
		input.Name = existing.Name
		if input.Description == "" {
			input.Description = existing.Description
		}
	}
	if input.TaskID == 0 {
		input.TaskID = existing.TaskID
	}
	if input.Status == "" {
		input.Status = existing.Status
	}
	if input.AssignedToID == nil && existing.AssignedTo != nil {
		id := existing.AssignedTo.ID
		input.AssignedToID = &id
	}
	if err := services.ValidateSubtask(input); err != nil {
		return models.Subtask{}, err
	}

	parent, directory, err := h.authorizeParent(ctx, cmd.Identity, input.TaskID)
	if err != nil {
		return models.Subtask{}, err
	}
	if input.AssignedToID != nil {
		services.CheckSubtaskAssignee(parent, directory, *input.AssignedToID)
	}

	updated, err := h.Deps.Svc.UpdateSubtask(ctx, cmd.SubtaskID, input.ToSubtask())
	if err != nil {
		return models.Subtask{}, fmt.Errorf("failed to update subtask %d: %w", cmd.SubtaskID, err)
	}
	logging.Logger.Infof("Event ID: SUBTASK_UPDATED, Description: Subtask %d updated, status %s", cmd.SubtaskID, input.Status.ForCollaborator())

	h.afterChange(ctx, parent, services.TriggerSubtaskChanged)
	return updated, nil
}

func (h *SubtaskHandler) Delete(ctx context.Context, cmd DeleteSubtaskCommand) error {
	if cmd.Identity == nil {
		return services.ErrUnauthenticated
	}
	existing, err := h.Deps.Svc.GetSubtask(ctx, cmd.SubtaskID)
	if err != nil {
		return fmt.Errorf("failed to load subtask %d: %w", cmd.SubtaskID, err)
	}
	parent, _, err := h.authorizeParent(ctx, cmd.Identity, existing.TaskID)
	if err != nil {
		return err
	}
	if err := h.Deps.Svc.DeleteSubtask(ctx, cmd.SubtaskID); err != nil {
		return fmt.Errorf("failed to delete subtask %d: %w", cmd.SubtaskID, err)
	}
	logging.Logger.Infof("Event ID: SUBTASK_DELETED, Description: Subtask %d deleted from task %d", cmd.SubtaskID, parent.ID)

	h.afterChange(ctx, parent, services.TriggerSubtaskDeleted)
	return nil
}

func (h *SubtaskHandler) afterChange(ctx context.Context, parent models.Task, reason string) {
	if err := h.completeParentIfDone(ctx, parent); err != nil {
		logging.Logger.Warnf("Event ID: PARENT_AUTOCOMPLETE_FAILED, Description: Could not complete task %d: %v", parent.ID, err)
	}
	h.Deps.Progress.Trigger(ctx, parent.ProjectID, reason)
}

// completeParentIfDone marks the parent DONE once all of its subtasks are DONE.
func (h *SubtaskHandler) completeParentIfDone(ctx context.Context, parent models.Task) error {
	if parent.Status.IsCompleted() {
		return nil
	}
	subtasks, err := h.Deps.Svc.ListSubtasks(ctx, parent.ID)
	if err != nil {
		return err
	}
	if len(subtasks) == 0 {
		return nil
	}
	for _, s := range subtasks {
		if !s.IsDone() {
			return nil
		}
	}

	done := models.StatusDone
	if _, err := h.Deps.Svc.UpdateTask(ctx, parent.ID, models.TaskUpdate{Status: &done}); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: PARENT_TASK_AUTOCOMPLETED, Description: Task %d completed after all subtasks were done", parent.ID)
	return nil
}

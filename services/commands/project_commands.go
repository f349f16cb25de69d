package commands

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

type CreateProjectCommand struct {
	Identity *models.Identity
	Input    models.ProjectInput
}

type UpdateProjectCommand struct {
	Identity  *models.Identity
	ProjectID int64
	Input     models.ProjectInput
}

type DeleteProjectCommand struct {
	Identity  *models.Identity
	ProjectID int64
}

// ProjectForgetter drops per-project progress state once a project is gone.
type ProjectForgetter interface {
	Forget(projectID int64)
}

type ProjectHandler struct {
	Deps   *Dependencies
	Forget ProjectForgetter
}

func NewProjectHandler(deps *Dependencies, forget ProjectForgetter) *ProjectHandler {
	return &ProjectHandler{Deps: deps, Forget: forget}
}

// managerRequired mirrors the form: a manager must be picked when candidates exist.
func (h *ProjectHandler) managerRequired(ctx context.Context) (bool, error) {
	employees, err := h.Deps.Svc.ListEmployees(ctx)
	if err != nil {
		return false, fmt.Errorf("loading employees: %w", err)
	}
	return len(services.ManagerCandidates(employees)) > 0, nil
}

func (h *ProjectHandler) Create(ctx context.Context, cmd CreateProjectCommand) (models.Project, error) {
	if err := h.Deps.Permissions.CanCreateProject(cmd.Identity); err != nil {
		return models.Project{}, err
	}
	required, err := h.managerRequired(ctx)
	if err != nil {
		return models.Project{}, err
	}
	if err := services.ValidateProject(cmd.Input, required); err != nil {
		return models.Project{}, err
	}

	created, err := h.Deps.Svc.CreateProject(ctx, cmd.Input.ToProject(cmd.Identity.EmployeeID))
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %d created by employee %d", created.ID, cmd.Identity.EmployeeID)
	return created, nil
}

func (h *ProjectHandler) Update(ctx context.Context, cmd UpdateProjectCommand) (models.Project, error) {
	if cmd.Identity == nil {
		return models.Project{}, services.ErrUnauthenticated
	}
	existing, err := h.Deps.Svc.GetProject(ctx, cmd.ProjectID)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load project %d: %w", cmd.ProjectID, err)
	}
	if err := h.Deps.Permissions.CanManageProject(cmd.Identity, existing); err != nil {
		return models.Project{}, err
	}
	required, err := h.managerRequired(ctx)
	if err != nil {
		return models.Project{}, err
	}
	if err := services.ValidateProject(cmd.Input, required); err != nil {
		return models.Project{}, err
	}

	project := cmd.Input.ToProject(models.EmployeeRef(existing.CreatedBy))
	project.ID = cmd.ProjectID
	project.Progress = existing.Progress
	updated, err := h.Deps.Svc.UpdateProject(ctx, cmd.ProjectID, project)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to update project %d: %w", cmd.ProjectID, err)
	}
	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %d updated by employee %d", cmd.ProjectID, cmd.Identity.EmployeeID)
	return updated, nil
}

func (h *ProjectHandler) Delete(ctx context.Context, cmd DeleteProjectCommand) error {
	if cmd.Identity == nil {
		return services.ErrUnauthenticated
	}
	existing, err := h.Deps.Svc.GetProject(ctx, cmd.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project %d: %w", cmd.ProjectID, err)
	}
	if err := h.Deps.Permissions.CanManageProject(cmd.Identity, existing); err != nil {
		return err
	}
	if err := h.Deps.Svc.DeleteProject(ctx, cmd.ProjectID); err != nil {
		return fmt.Errorf("failed to delete project %d: %w", cmd.ProjectID, err)
	}
	if h.Forget != nil {
		h.Forget.Forget(cmd.ProjectID)
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %d deleted by employee %d", cmd.ProjectID, cmd.Identity.EmployeeID)
	return nil
}

package services

import (
	"strings"

	"projecthub/microservices/progress-service/models"
)

// Permissions enforces the mutation rules before anything reaches the collaborator.
type Permissions struct {
	visibility VisibilityFilter
}

func NewPermissions(visibility VisibilityFilter) Permissions {
	return Permissions{visibility: visibility}
}

func (p Permissions) isAdminOrUser(identity *models.Identity) bool {
	return p.visibility.IsAdmin(identity) || strings.EqualFold(identity.Role, models.RoleUser)
}

func (p Permissions) CanCreateProject(identity *models.Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if !p.isAdminOrUser(identity) {
		return forbidden("role %q cannot create projects", identity.Role)
	}
	return nil
}

// CanManageProject covers update and delete: admin or the project's creator.
func (p Permissions) CanManageProject(identity *models.Identity, project models.Project) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if p.visibility.IsAdmin(identity) {
		return nil
	}
	if creator := models.EmployeeRef(project.CreatedBy); creator != 0 && creator == identity.EmployeeID {
		return nil
	}
	return forbidden("employee %d cannot modify project %d", identity.EmployeeID, project.ID)
}

func (p Permissions) CanCreateTask(identity *models.Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if !p.isAdminOrUser(identity) {
		return forbidden("role %q cannot create tasks", identity.Role)
	}
	return nil
}

func (p Permissions) CanDeleteTask(identity *models.Identity, task models.Task) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if p.visibility.IsAdmin(identity) {
		return nil
	}
	if creator := models.EmployeeRef(task.CreatedBy); creator != 0 && creator == identity.EmployeeID {
		return nil
	}
	return forbidden("employee %d cannot delete task %d", identity.EmployeeID, task.ID)
}

// CanEditTask covers field edits, status changes and subtask mutations:
// admin, the creator, or anyone in the resolved assignee set.
func (p Permissions) CanEditTask(identity *models.Identity, task models.Task, directory *EmployeeDirectory) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if p.visibility.IsAdmin(identity) {
		return nil
	}
	if creator := models.EmployeeRef(task.CreatedBy); creator != 0 && creator == identity.EmployeeID {
		return nil
	}
	if identity.EmployeeID != 0 && IsAssignee(task, directory, identity.EmployeeID) {
		return nil
	}
	return forbidden("employee %d cannot edit task %d", identity.EmployeeID, task.ID)
}

// CanManageTeamMembers allows admins and the team's leads.
func (p Permissions) CanManageTeamMembers(identity *models.Identity, team models.Team) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if p.visibility.IsAdmin(identity) || team.IsLead(identity.EmployeeID) {
		return nil
	}
	return forbidden("employee %d cannot change members of team %d", identity.EmployeeID, team.ID)
}
